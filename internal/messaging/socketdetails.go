package messaging

import "github.com/uofuseismo/umps/internal/authentication"

// SocketType enumerates the C6 socket patterns.
type SocketType int

const (
	UnknownSocket SocketType = iota
	PublisherSocket
	SubscriberSocket
	XPublisherSocket
	XSubscriberSocket
	RequestSocket
	ReplySocket
	RouterSocket
	DealerSocket
	ProxySocket
)

func (s SocketType) String() string {
	switch s {
	case PublisherSocket:
		return "Publisher"
	case SubscriberSocket:
		return "Subscriber"
	case XPublisherSocket:
		return "XPublisher"
	case XSubscriberSocket:
		return "XSubscriber"
	case RequestSocket:
		return "Request"
	case ReplySocket:
		return "Reply"
	case RouterSocket:
		return "Router"
	case DealerSocket:
		return "Dealer"
	case ProxySocket:
		return "Proxy"
	default:
		return "Unknown"
	}
}

// ConnectOrBind distinguishes a socket that dials an address from one
// that listens on it.
type ConnectOrBind int

const (
	Connect ConnectOrBind = iota
	Bind
)

func (c ConnectOrBind) String() string {
	if c == Bind {
		return "Bind"
	}
	return "Connect"
}

// SocketDetails is the per-pattern record of spec §3 (C6/C8). Address is
// non-empty iff the owning socket has been initialized.
type SocketDetails struct {
	Address                string
	SocketType             SocketType
	SecurityLevel          authentication.SecurityLevel
	MinimumUserPrivileges  authentication.Privilege
	ConnectOrBind          ConnectOrBind

	// Frontend/Backend are populated only when SocketType == ProxySocket.
	Frontend *SocketDetails
	Backend  *SocketDetails
}

// IsInitialized reports whether Address has been set.
func (d SocketDetails) IsInitialized() bool { return d.Address != "" }
