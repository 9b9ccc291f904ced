// Package client holds the terminal front ends for the game server.
package client

import "github.com/yourusername/snake-duel/internal/logging"

var log = logging.Logger(logging.Client)
