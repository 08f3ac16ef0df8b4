package feed

// Entry is a message that is currently in the feed.
type Entry struct {
	// Seq is assigned by the controller when the message is shown. It is
	// unique for the lifetime of the controller.
	Seq     int64
	Message Message
}

// Ref returns a reference that matches this entry.
func (e Entry) Ref() Ref {
	return Ref{id: e.Message.ID, seq: e.Seq}
}

// Ref identifies an entry for Remove and Click.
//
// When both the ref and a stored entry carry a caller id, they match by id.
// Otherwise they match by sequence id, i.e. by identity with the exact entry
// returned from Show. A ref with neither never matches.
type Ref struct {
	id  string
	seq int64
}

// ByID returns a ref that matches entries by caller id.
func ByID(id string) Ref {
	return Ref{id: id}
}

// BySeq returns a ref that matches the entry with the given sequence id.
func BySeq(seq int64) Ref {
	return Ref{seq: seq}
}

// ID returns the caller id carried by the ref, if any.
func (r Ref) ID() string { return r.id }

// Seq returns the sequence id carried by the ref, or 0.
func (r Ref) Seq() int64 { return r.seq }

// IsZero reports whether the ref carries no matching criterion.
func (r Ref) IsZero() bool {
	return r.id == "" && r.seq == 0
}

// Matches reports whether r refers to e.
func (r Ref) Matches(e Entry) bool {
	if r.id != "" && e.Message.ID != "" {
		return r.id == e.Message.ID
	}
	return r.seq != 0 && r.seq == e.Seq
}
