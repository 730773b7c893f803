package recordings

// PageRequest resolves a session id plus pagination filter into one page.
type PageRequest struct {
	TeamID    int64
	SessionID string
	// Limit bounds the number of distinct chunk groups fetched, not the
	// number of reconstructed events; one group may expand to many events.
	// Zero or negative means unbounded.
	Limit int
	// Offset is the number of groups to skip.
	Offset int
	// FilterExpr optionally narrows recovered events with a CEL expression
	// over type, timestamp, session_id, distinct_id, and data.
	FilterExpr string
}

// Continuation points at the next page. Present only when the current page
// was full, signaling that more groups may exist.
type Continuation struct {
	Limit  int
	Offset int
}

// Page is one reconstructed slice of a session.
type Page struct {
	// Snapshots are the recovered display records in replay order: the
	// opaque payload trees carrying at minimum timestamp and type.
	Snapshots []map[string]interface{}
	Next      *Continuation
}
