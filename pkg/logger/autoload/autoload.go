// Package autoload initializes the global logger from LOG_* variables on
// import.
package autoload

import (
	configx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/config"
	logx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/logger"
)

func init() {
	cfg, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*cfg)
}
