// Command eepromctl reads, writes and inspects a paged EEPROM.
package main

import "github.com/sarchlab/eeprom/eepromctl/cmd"

func main() {
	cmd.Execute()
}
