package announce

import (
	"encoding/json"
	"time"

	"go.ntppool.org/common/version"
)

type StatusMessage struct {
	Online  bool
	Version version.Info
	Updated time.Time
}

func StatusMessageJSON(online bool) ([]byte, error) {
	sm := &StatusMessage{
		Online:  online,
		Version: version.VersionInfo(),
		Updated: time.Now().Truncate(time.Second),
	}
	return json.Marshal(sm)
}
