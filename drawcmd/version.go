package drawcmd

import (
	"encoding/json"
	"fmt"

	"go.ntppool.org/common/version"
)

type versionCmd struct {
	JSON bool `name:"json" help:"Print the build information as JSON"`
}

func (cmd *versionCmd) Run(cli *CLI) error {
	if cmd.JSON {
		return json.NewEncoder(cli.out()).Encode(version.VersionInfo())
	}
	fmt.Fprintf(cli.out(), "%s %s\n", name, version.Version())
	return nil
}
