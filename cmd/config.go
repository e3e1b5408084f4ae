package main

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	PasswordScheme       string        `env:"PASSWORD_SCHEME,default=plain"`
	SubscriberBufferSize int           `env:"SUBSCRIBER_BUFFER_SIZE,default=64"`
	HistoryLimit         *int          `env:"HISTORY_LIMIT"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=5s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}
