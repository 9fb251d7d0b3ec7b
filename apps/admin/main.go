package main

import (
	"log"
	"os"

	"github.com/edusoma/portal/core"
	"github.com/edusoma/portal/core/auth"
	"github.com/edusoma/portal/services/httpclient"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli := commandLine{
		out:         os.Stdout,
		exchangeCli: auth.NewExchangeClient(core.Conf.Identity, httpclient.NewOutbound(core.Conf.Identity.Timeout)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
