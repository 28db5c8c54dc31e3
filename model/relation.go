package model

import (
	"github.com/google/uuid"
)

// RelationType classifies a mention link between two profiles
type RelationType string

const (
	RelationMentioned       RelationType = "Mentioned"
	RelationMentionedBy     RelationType = "Mentioned by"
	RelationSpouse          RelationType = "Spouse"
	RelationParent          RelationType = "Parent"
	RelationChild           RelationType = "Child"
	RelationSibling         RelationType = "Sibling"
	RelationCousin          RelationType = "Cousin"
	RelationFriend          RelationType = "Friend"
	RelationInLaw           RelationType = "In-law"
	RelationBusinessPartner RelationType = "Business partner"
	RelationClassmate       RelationType = "Classmate"
	RelationNeighbor        RelationType = "Neighbor"
	RelationStepParent      RelationType = "Step-parent"
	RelationStepChild       RelationType = "Step-child"
	RelationGodparent       RelationType = "Godparent"
	RelationGodchild        RelationType = "Godchild"
)

// inversions maps every asymmetric relation type to its reverse.
// Types not present here are symmetric and invert to themselves.
var inversions = map[RelationType]RelationType{
	RelationMentioned:   RelationMentionedBy,
	RelationMentionedBy: RelationMentioned,
	RelationParent:      RelationChild,
	RelationChild:       RelationParent,
	RelationStepParent:  RelationStepChild,
	RelationStepChild:   RelationStepParent,
	RelationGodparent:   RelationGodchild,
	RelationGodchild:    RelationGodparent,
}

// Invert returns the relation type of the reciprocal link
func (r RelationType) Invert() RelationType {
	if inv, ok := inversions[r]; ok {
		return inv
	}
	return r
}

// Contemporary reports whether the relation type implies both people were
// plausibly alive at the same time
func (r RelationType) Contemporary() bool {
	switch r {
	case RelationSpouse, RelationBusinessPartner, RelationFriend,
		RelationClassmate, RelationNeighbor:
		return true
	}
	return false
}

// RelatedLink is a mention link discovered in a profile's notes, pointing at
// another profile in the dataset
type RelatedLink struct {
	ID         uuid.UUID    `json:"id"`
	TargetID   string       `json:"target_id"`
	Type       RelationType `json:"relation_type"`
	SourceText string       `json:"source_text,omitempty"`
}

// LinkID derives a stable link id from its endpoints and type, so repeated
// runs over unchanged input produce byte-identical output
func LinkID(sourceID, targetID string, relType RelationType) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(sourceID+"->"+targetID+":"+string(relType)))
}
