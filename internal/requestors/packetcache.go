package requestors

// PacketCacheRequestor is a façade over a packet-cache-shaped service
// (spec's supplemented features, §4): it moves an opaque payload to the
// service and returns an opaque reply. It does not know or enforce any
// seismic packet schema — that remains out of scope (spec Non-goals) —
// so it is simply a typed name for "a Request socket used this way."
type PacketCacheRequestor struct {
	base
}

// NewPacketCacheRequestor constructs an uninitialized PacketCacheRequestor.
func NewPacketCacheRequestor() *PacketCacheRequestor {
	return &PacketCacheRequestor{base: newBase()}
}

// Fetch sends an opaque request payload (e.g. a station/channel/time-range
// query the caller has already serialized) and returns the opaque reply
// payload verbatim.
func (r *PacketCacheRequestor) Fetch(payload []byte) ([]byte, error) {
	return r.request.Request(payload)
}
