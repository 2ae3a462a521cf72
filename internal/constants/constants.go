// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

// DefaultChannelsPerSensor is the number of electrode channels driven by one
// capacitive sensor board.
const DefaultChannelsPerSensor = 12

// DefaultStartChannel and DefaultFinishChannel bound the beam on a full
// four-sensor, 48-channel rig. Only channels strictly between them count as
// foot-fault electrodes.
const (
	DefaultStartChannel  = 47
	DefaultFinishChannel = 0
)
