package domain

// CallData carries a formatted call-time total for one direction.
type CallData struct {
	TotalTime string `json:"totalTime"`
}

// Udr is the per-subscriber usage summary. Derived, never persisted;
// recomputed from the record store on every request.
type Udr struct {
	Msisdn        string   `json:"msisdn"`
	IncomingCall  CallData `json:"incomingCall"`
	OutcomingCall CallData `json:"outcomingCall"`
}
