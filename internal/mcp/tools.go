package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/san-kum/rhythms/internal/bridge"
	"github.com/san-kum/rhythms/internal/dynamo"
	"go.uber.org/zap"
)

type RhythmInput struct {
	RhythmType string `json:"rhythm_type" jsonschema:"rhythm identifier such as critical_phi or semantic_vortex"`
}

type RhythmOutput struct {
	RhythmType string         `json:"rhythm_type" jsonschema:"rhythm identifier"`
	Timestamp  float64        `json:"timestamp" jsonschema:"seconds since the Unix epoch"`
	Values     []float64      `json:"values" jsonschema:"primary outputs of the rhythm"`
	Metadata   map[string]any `json:"metadata" jsonschema:"rhythm-specific diagnostics"`
}

type UpdateInput struct {
	RhythmType string   `json:"rhythm_type" jsonschema:"rhythm identifier"`
	DeltaTime  *float64 `json:"delta_time,omitempty" jsonschema:"seconds to advance, must be zero or positive"`
}

type UpdateOutput struct {
	RhythmType string  `json:"rhythm_type"`
	DeltaTime  float64 `json:"delta_time"`
	OK         bool    `json:"ok"`
}

type ListInput struct{}

type ListOutput struct {
	Rhythms []bridge.Info `json:"rhythms" jsonschema:"every available rhythm"`
	Count   int           `json:"count"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        bridge.CmdGetRhythmData,
		Description: "Sample the current state of one rhythm",
	}, s.handleGetRhythmData)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        bridge.CmdUpdateRhythm,
		Description: "Advance one rhythm by delta_time seconds",
	}, s.handleUpdateRhythm)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        bridge.CmdListRhythms,
		Description: "List the rhythm identifiers",
	}, s.handleListRhythms)
}

func (s *Server) handleGetRhythmData(ctx context.Context, req *sdk.CallToolRequest, args RhythmInput) (*sdk.CallToolResult, RhythmOutput, error) {
	snap, err := s.disp.GetRhythmData(args.RhythmType)
	if err != nil {
		return nil, RhythmOutput{}, toolError(err)
	}
	return nil, toOutput(snap), nil
}

func (s *Server) handleUpdateRhythm(ctx context.Context, req *sdk.CallToolRequest, args UpdateInput) (*sdk.CallToolResult, UpdateOutput, error) {
	if args.DeltaTime == nil {
		return nil, UpdateOutput{}, toolError(fmt.Errorf("%w: delta_time", bridge.ErrMissingArg))
	}
	dt := *args.DeltaTime
	if err := s.disp.UpdateRhythm(args.RhythmType, dt); err != nil {
		s.logger.Debug("update_rhythm tool failed", zap.String("rhythm", args.RhythmType), zap.Error(err))
		return nil, UpdateOutput{}, toolError(err)
	}
	return nil, UpdateOutput{RhythmType: args.RhythmType, DeltaTime: dt, OK: true}, nil
}

func (s *Server) handleListRhythms(ctx context.Context, req *sdk.CallToolRequest, args ListInput) (*sdk.CallToolResult, ListOutput, error) {
	list := s.disp.List()
	return nil, ListOutput{Rhythms: list, Count: len(list)}, nil
}

func toOutput(snap dynamo.Snapshot) RhythmOutput {
	return RhythmOutput{
		RhythmType: snap.Kind.String(),
		Timestamp:  snap.Timestamp,
		Values:     snap.Values,
		Metadata:   snap.Metadata,
	}
}

type messageError struct{ msg string }

func (e messageError) Error() string { return e.msg }

// toolError strips wrapping so tool callers see the bare command message.
func toolError(err error) error {
	return messageError{msg: bridge.Message(err)}
}
