package domain

// Resource is an uploaded binary attachment. MemoID is nil while the
// resource belongs to an in-progress edit session and is set once linked;
// a linked resource is owned by exactly one memo.
type Resource struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	Type      string `json:"type"` // media type
	Size      int64  `json:"size"`
	MemoID    *int64 `json:"memoId,omitempty"`
	CreatedTs int64  `json:"createdTs"`
}
