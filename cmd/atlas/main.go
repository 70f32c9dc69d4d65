// Command atlas is the world-generation CLI: a command per pipeline stage
// plus the genesis/big-bang aggregates that run the whole sequence.
package main

import "github.com/worldforge/atlas/internal/cmd"

func main() {
	cmd.Execute()
}
