package ledger

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"go.inspectdraw.org/draw/catalog"
)

// DrawRecord is one committed draw. Records are append-only.
type DrawRecord struct {
	ID                 string           `json:"id"`
	Timestamp          time.Time        `json:"timestamp"`
	TargetID           string           `json:"target_id"`
	TargetName         string           `json:"target_name"`
	Category           catalog.Category `json:"category"`
	SelectedID         string           `json:"selected_id"`
	SelectedName       string           `json:"selected_name"`
	SelectedOriginID   string           `json:"selected_origin_id"`
	SelectedOriginName string           `json:"selected_origin_name"`
}

// NewRecord builds a record for selected having been drawn for target.
// originName is the display name of the selected entity's group.
func NewRecord(ts time.Time, target, selected catalog.Entity, category catalog.Category, originName string) (DrawRecord, error) {
	id, err := makeULID(ts)
	if err != nil {
		return DrawRecord{}, err
	}
	if originName == "" {
		originName = selected.Name
	}
	return DrawRecord{
		ID:                 id.String(),
		Timestamp:          ts,
		TargetID:           target.ID,
		TargetName:         target.Name,
		Category:           category,
		SelectedID:         selected.ID,
		SelectedName:       selected.Name,
		SelectedOriginID:   selected.Group(),
		SelectedOriginName: originName,
	}, nil
}

var monotonicPool = sync.Pool{
	New: func() any {
		var seed int64
		err := binary.Read(cryptorand.Reader, binary.BigEndian, &seed)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}

		rand := mathrand.New(mathrand.NewSource(seed))
		inc := uint64(rand.Int63())

		return ulid.Monotonic(rand, inc)
	},
}

func makeULID(t time.Time) (ulid.ULID, error) {
	mono := monotonicPool.Get().(io.Reader)
	defer monotonicPool.Put(mono)

	return ulid.New(ulid.Timestamp(t), mono)
}
