package core

// Alerter escalates an operational failure to the administrator channel.
// Implementations are best-effort and fire-and-forget: a misconfigured or
// failing alert channel must never crash the pipeline that depends on it.
type Alerter interface {
	Alert(subject, body string)
}
