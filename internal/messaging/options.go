package messaging

import (
	"time"

	"github.com/uofuseismo/umps/internal/authentication"
)

// PublisherOptions configures a Publisher or XPublisher socket (spec §4.4).
type PublisherOptions struct {
	Address           string
	ZAPOptions        authentication.ZAPOptions
	SendHighWaterMark int
	SendTimeOut       time.Duration
}

// SubscriberOptions configures a Subscriber or XSubscriber socket.
type SubscriberOptions struct {
	Address              string
	ZAPOptions           authentication.ZAPOptions
	Topics               []string
	ReceiveHighWaterMark int
	ReceiveTimeOut       time.Duration
}

// RequestOptions configures a Request socket.
type RequestOptions struct {
	Address    string
	ZAPOptions authentication.ZAPOptions
	TimeOut    time.Duration
}

// ReplyOptions configures a Reply socket. By default a replier binds its
// own public address; set DialBackend to instead dial into a
// RequestReplyProxy's DEALER backend as one of its worker pool (spec
// §4.7/§4.8: "a replier attached to the dealer side").
type ReplyOptions struct {
	Address     string
	ZAPOptions  authentication.ZAPOptions
	TimeOut     time.Duration
	DialBackend bool
}

// RouterOptions configures a Router socket.
type RouterOptions struct {
	Address    string
	ZAPOptions authentication.ZAPOptions
	TimeOut    time.Duration
}

// DealerOptions configures a Dealer socket. By default a Dealer dials
// out to a peer; set Bind when the Dealer is itself the rendezvous point
// (a RequestReplyProxy's backend, which REP workers dial into).
type DealerOptions struct {
	Address           string
	ZAPOptions        authentication.ZAPOptions
	RoutingIdentifier string
	TimeOut           time.Duration
	Bind              bool
}
