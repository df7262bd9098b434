package events

// Canonical event names raised by the inventory service. Names are
// case-sensitive; routing is purely by name.
const (
	AuthEVSEStart         = "AuthEVSEStart"
	AuthEVSEStarted       = "AuthEVSEStarted"
	AuthEVSEStop          = "AuthEVSEStop"
	AuthEVSEStopped       = "AuthEVSEStopped"
	RemoteEVSEStart       = "RemoteEVSEStart"
	RemoteEVSEStarted     = "RemoteEVSEStarted"
	RemoteEVSEStop        = "RemoteEVSEStop"
	RemoteEVSEStopped     = "RemoteEVSEStopped"
	SendCDR               = "SendCDR"
	CDRSent               = "CDRSent"
	GetEVSEsStatusRequest = "GetEVSEsStatusRequest"
)

// All lists every canonical event, in raise order pairs, for bulk
// registration at startup.
var All = []string{
	AuthEVSEStart, AuthEVSEStarted,
	AuthEVSEStop, AuthEVSEStopped,
	RemoteEVSEStart, RemoteEVSEStarted,
	RemoteEVSEStop, RemoteEVSEStopped,
	SendCDR, CDRSent,
	GetEVSEsStatusRequest,
}
