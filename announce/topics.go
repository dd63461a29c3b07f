package announce

import (
	"fmt"
	"strings"

	"go.ntppool.org/common/config/depenv"

	"go.inspectdraw.org/draw/catalog"
)

type Topics struct {
	e depenv.DeploymentEnvironment
}

func NewTopics(depEnv depenv.DeploymentEnvironment) *Topics {
	return &Topics{e: depEnv}
}

func (t *Topics) prefix() string {
	return fmt.Sprintf("/%s/inspectdraw", t.e)
}

func (t *Topics) Status(name string) string {
	return fmt.Sprintf("%s/status/%s", t.prefix(), name)
}

func (t *Topics) StatusSubscription() string {
	return fmt.Sprintf("%s/status/#", t.prefix())
}

func (t *Topics) Draw(category catalog.Category, targetID string) string {
	return fmt.Sprintf("%s/draws/%s/%s", t.prefix(), category, targetID)
}

func (t *Topics) DrawSubscription() string {
	return fmt.Sprintf("%s/draws/#", t.prefix())
}

// ParseDrawTopic returns the category and target of a draw topic.
func (t *Topics) ParseDrawTopic(topic string) (catalog.Category, string, error) {
	// /devel/inspectdraw/draws/pressure/cy1
	rest, ok := strings.CutPrefix(topic, t.prefix()+"/draws/")
	if !ok {
		return catalog.CategoryUnknown, "", fmt.Errorf("not a draw topic: %q", topic)
	}
	p := strings.Split(rest, "/")
	if len(p) != 2 || p[1] == "" {
		return catalog.CategoryUnknown, "", fmt.Errorf("could not parse draw topic: %q", topic)
	}
	cat, err := catalog.ParseSpecialty(p[0])
	if err != nil {
		return catalog.CategoryUnknown, "", fmt.Errorf("draw topic %q: %w", topic, err)
	}
	return cat, p[1], nil
}
