/*
	CLI that controls monitor brightness using the DDC/CI protocol.
*/

package main

import "github.com/hoppxi/monitor-brightness/internal/cmd"

func main() {
	cmd.Execute()
}
