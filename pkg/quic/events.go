package quic

// OnConnectionHandler is invoked exactly once per connection, the first
// time a valid Initial packet causes that connection to be inserted
// into a worker's registry. It lets application code install
// OnStream/OnMessage/OnDatagram/OnClose handlers on the connection
// before any further packets for it are processed.
type OnConnectionHandler func(*Connection)
