package conf

import "time"

type Config struct {
	WatchFolder    string
	BlockSize      int
	DBPath         string
	RescanInterval time.Duration
	RefineLimit    int
}

var AppConfig Config
