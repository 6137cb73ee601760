package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"peoplehub/api/internal/service"
)

// Processor dispatches stream messages to the owning service.
type Processor struct {
	reminders *service.ReminderService
	log       zerolog.Logger
}

type TaskPayload struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func NewProcessor(reminders *service.ReminderService, log zerolog.Logger) *Processor {
	return &Processor{
		reminders: reminders,
		log:       log,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "reminders":
		return p.handleReminderSweep(ctx)
	default:
		p.log.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]any, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

func (p *Processor) handleReminderSweep(ctx context.Context) error {
	created, err := p.reminders.SweepSickNotes(ctx)
	if err != nil {
		return fmt.Errorf("sick note sweep: %w", err)
	}
	p.log.Info().Int("created", created).Msg("reminder sweep task done")
	return nil
}
