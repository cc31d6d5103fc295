package bridge

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

func eventToStruct(ev types.AccessEvent) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":         ev.ID,
		"date":       ev.Date,
		"time":       ev.Time,
		"accessType": ev.AccessType,
	})
}

func eventsToList(evs []types.AccessEvent) (*structpb.ListValue, error) {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(evs))}
	for _, ev := range evs {
		s, err := eventToStruct(ev)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, structpb.NewStructValue(s))
	}
	return out, nil
}

// inputFromStruct reads the three caller-supplied fields.  Non-string
// values read as empty and fail validation downstream.
func inputFromStruct(s *structpb.Struct) types.AccessEventInput {
	f := s.GetFields()
	return types.AccessEventInput{
		Date:       f["date"].GetStringValue(),
		Time:       f["time"].GetStringValue(),
		AccessType: f["accessType"].GetStringValue(),
	}
}

func inputsFromList(l *structpb.ListValue) ([]types.AccessEventInput, error) {
	out := make([]types.AccessEventInput, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		out = append(out, inputFromStruct(s))
	}
	return out, nil
}

func doorStatusToStruct(st types.DoorStatus) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"state": string(st.State)})
}

func doorResultToStruct(res types.DoorCommandResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"message": res.Message,
		"state":   string(res.State),
	})
}

// EventFromStruct decodes an access event returned by the bridge.
func EventFromStruct(s *structpb.Struct) types.AccessEvent {
	f := s.GetFields()
	return types.AccessEvent{
		ID:         int64(f["id"].GetNumberValue()),
		Date:       f["date"].GetStringValue(),
		Time:       f["time"].GetStringValue(),
		AccessType: f["accessType"].GetStringValue(),
	}
}

// InputToStruct encodes an access event input for RecordEvent.
func InputToStruct(in types.AccessEventInput) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"date":       in.Date,
		"time":       in.Time,
		"accessType": in.AccessType,
	})
}
