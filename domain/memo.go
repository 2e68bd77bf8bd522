package domain

// Visibility is the access scope of a memo
type Visibility string

const (
	VisibilityPrivate   Visibility = "PRIVATE"
	VisibilityProtected Visibility = "PROTECTED"
	VisibilityPublic    Visibility = "PUBLIC"
)

// RowStatus is the soft-deletion state of a memo
type RowStatus string

const (
	RowStatusNormal   RowStatus = "NORMAL"
	RowStatusArchived RowStatus = "ARCHIVED"
)

// RelationType is the kind of directed edge between two memos
type RelationType string

const (
	RelationReference RelationType = "REFERENCE"
	RelationComment   RelationType = "COMMENT"
)

// MemoRelation is a directed edge from one memo to another
type MemoRelation struct {
	MemoID        int64        `json:"memoId"`
	RelatedMemoID int64        `json:"relatedMemoId"`
	Type          RelationType `json:"type"`
}

// Memo is the core entity of the service. The id is server-assigned and
// immutable; everything else changes through field-masked patches.
type Memo struct {
	ID           int64          `json:"id"`
	Creator      string         `json:"creator"` // resource name, users/{username}
	Content      string         `json:"content"`
	Visibility   Visibility     `json:"visibility"`
	RowStatus    RowStatus      `json:"rowStatus"`
	Pinned       bool           `json:"pinned"`
	ParentID     *int64         `json:"parentId,omitempty"`
	CreatedTs    int64          `json:"createdTs"`
	UpdatedTs    int64          `json:"updatedTs"`
	ResourceList []Resource     `json:"resourceList,omitempty"`
	RelationList []MemoRelation `json:"relationList,omitempty"`
}

// CreatorUsername returns the username portion of the creator resource name
func (m *Memo) CreatorUsername() string {
	return ExtractUsername(m.Creator)
}

// DisplayTs returns the timestamp the memo is presented under. Exactly one of
// the two timestamps is used, selected by the workspace display setting.
func (m *Memo) DisplayTs(withUpdatedTs bool) int64 {
	if withUpdatedTs {
		return m.UpdatedTs
	}
	return m.CreatedTs
}

// Clone returns a deep copy of the memo
func (m *Memo) Clone() *Memo {
	clone := *m
	if m.ParentID != nil {
		parent := *m.ParentID
		clone.ParentID = &parent
	}
	if m.ResourceList != nil {
		clone.ResourceList = make([]Resource, len(m.ResourceList))
		copy(clone.ResourceList, m.ResourceList)
	}
	if m.RelationList != nil {
		clone.RelationList = make([]MemoRelation, len(m.RelationList))
		copy(clone.RelationList, m.RelationList)
	}
	return &clone
}

// NormalizeRelations drops relations pointing back at the owning memo and
// keeps only the first relation per related memo.
func NormalizeRelations(memoID int64, relations []MemoRelation) []MemoRelation {
	if len(relations) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(relations))
	out := make([]MemoRelation, 0, len(relations))
	for _, relation := range relations {
		if relation.RelatedMemoID == memoID {
			continue
		}
		if _, ok := seen[relation.RelatedMemoID]; ok {
			continue
		}
		seen[relation.RelatedMemoID] = struct{}{}
		out = append(out, relation)
	}
	return out
}
