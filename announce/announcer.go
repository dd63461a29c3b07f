// Package announce publishes committed draws to an MQTT broker.
package announce

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eclipse/paho.golang/paho"
	"go.ntppool.org/common/logger"

	"go.inspectdraw.org/draw/draw"
	"go.inspectdraw.org/draw/ledger"
)

// Publisher is the part of autopaho.ConnectionManager the announcer
// uses.
type Publisher interface {
	Publish(ctx context.Context, p *paho.Publish) (*paho.PublishResponse, error)
}

// DrawMessage is the retained payload for a draw topic.
type DrawMessage struct {
	Record       ledger.DrawRecord `json:"record"`
	ForcedUnique bool              `json:"forced_unique"`
	Candidates   int               `json:"candidates"`
	Message      string            `json:"message"`
}

// Announcer publishes each committed draw as a retained message on the
// draw's topic, so late subscribers see the latest counterpart of every
// (category, target).
type Announcer struct {
	pub    Publisher
	topics *Topics
}

func NewAnnouncer(pub Publisher, topics *Topics) *Announcer {
	return &Announcer{pub: pub, topics: topics}
}

func (a *Announcer) Announce(ctx context.Context, out *draw.Outcome) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(DrawMessage{
		Record:       out.Record,
		ForcedUnique: out.ForcedUnique,
		Candidates:   out.CandidateCount,
		Message:      out.Message(),
	})
	if err != nil {
		return err
	}

	topic := a.topics.Draw(out.Category, out.Target.ID)
	log.DebugContext(ctx, "publishing draw", "topic", topic, "record", out.Record.ID)

	_, err = a.pub.Publish(ctx, &paho.Publish{
		Topic:   topic,
		Payload: payload,
		QoS:     1,
		Retain:  true,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
