package main

import (
	"log"
	"os"

	"github.com/trezcool/kumbusha/core"
	logsvc "github.com/trezcool/kumbusha/services/logger"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "REMIND : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("loading config: %+v", err)
	}

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	cli := commandLine{conf: conf, logger: logger}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
