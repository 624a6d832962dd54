package edits

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kilupskalvis/mapedit/internal/models"
)

// CodecVersion is the version of the action envelope written by Encode
const CodecVersion = 1

// ErrUnknownAction is returned when decoding an envelope of an unknown
// version or action type.
var ErrUnknownAction = errors.New("unknown action")

// Action type names used in the envelope
const (
	TypeDeletePoiNode           = "delete_poi_node"
	TypeRevertDeletePoiNode     = "revert_delete_poi_node"
	TypeUpdateElementTags       = "update_element_tags"
	TypeRevertUpdateElementTags = "revert_update_element_tags"
	TypeCreateNode              = "create_node"
	TypeRevertCreateNode        = "revert_create_node"
)

type envelope struct {
	Version int             `json:"version"`
	Type    string          `json:"type"`
	Action  json.RawMessage `json:"action"`
}

// TypeName returns the envelope type name of a
func TypeName(a Action) (string, error) {
	switch a.(type) {
	case DeletePoiNode:
		return TypeDeletePoiNode, nil
	case RevertDeletePoiNode:
		return TypeRevertDeletePoiNode, nil
	case UpdateElementTags:
		return TypeUpdateElementTags, nil
	case RevertUpdateElementTags:
		return TypeRevertUpdateElementTags, nil
	case CreateNode:
		return TypeCreateNode, nil
	case RevertCreateNode:
		return TypeRevertCreateNode, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownAction, a)
}

// Encode serializes an action into a versioned envelope
func Encode(a Action) ([]byte, error) {
	typ, err := TypeName(a)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", typ, err)
	}
	return json.Marshal(&envelope{Version: CodecVersion, Type: typ, Action: payload})
}

// Decode restores an action encoded by Encode
func Decode(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal action envelope: %w", err)
	}
	if env.Version != CodecVersion {
		return nil, fmt.Errorf("%w: envelope version %d", ErrUnknownAction, env.Version)
	}

	switch env.Type {
	case TypeDeletePoiNode:
		return decodeAs[DeletePoiNode](env)
	case TypeRevertDeletePoiNode:
		return decodeAs[RevertDeletePoiNode](env)
	case TypeUpdateElementTags:
		return decodeAs[UpdateElementTags](env)
	case TypeRevertUpdateElementTags:
		return decodeAs[RevertUpdateElementTags](env)
	case TypeCreateNode:
		return decodeAs[CreateNode](env)
	case TypeRevertCreateNode:
		return decodeAs[RevertCreateNode](env)
	}
	return nil, fmt.Errorf("%w: type %q", ErrUnknownAction, env.Type)
}

func decodeAs[T Action](env envelope) (Action, error) {
	var a T
	if err := json.Unmarshal(env.Action, &a); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", env.Type, err)
	}
	if s, ok := any(a).(snapshotter); ok && s.snapshot() == nil {
		return nil, fmt.Errorf("%s without element", env.Type)
	}
	return a, nil
}

// snapshotter is implemented by all actions; every action refers to one element
type snapshotter interface {
	snapshot() *models.Element
}

func (a DeletePoiNode) snapshot() *models.Element           { return a.OriginalNode }
func (a RevertDeletePoiNode) snapshot() *models.Element     { return a.OriginalNode }
func (a UpdateElementTags) snapshot() *models.Element       { return a.OriginalElement }
func (a RevertUpdateElementTags) snapshot() *models.Element { return a.OriginalElement }
func (a CreateNode) snapshot() *models.Element              { return a.Node }
func (a RevertCreateNode) snapshot() *models.Element        { return a.Node }
