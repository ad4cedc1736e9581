package main

import (
	"context"
	"fleetblock-backend/cmd/fleetblock-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
