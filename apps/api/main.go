package main

import (
	"context"
	"log"
	"os"
	"time"

	echoapi "github.com/edusoma/portal/apps/api/echo"
	"github.com/edusoma/portal/core"
	"github.com/edusoma/portal/core/auth"
	"github.com/edusoma/portal/core/student"
	emailsvc "github.com/edusoma/portal/services/email"
	"github.com/edusoma/portal/services/httpclient"
	logsvc "github.com/edusoma/portal/services/logger"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up services
	var logger core.Logger
	var mailSvc core.EmailService
	if core.Conf.Debug {
		logger = logsvc.NewStdLogger(std)
		mailSvc = emailsvc.NewConsoleService()
	} else {
		rbLogger := logsvc.NewRollbarLogger(std, core.Conf)
		rbLogger.Enable(!core.Conf.Debug)
		logger = rbLogger
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	exchangeCli := auth.NewExchangeClient(core.Conf.Identity, httpclient.NewOutbound(core.Conf.Identity.Timeout))
	studentSvc := student.NewService(core.Conf.School, httpclient.NewOutbound(core.Conf.School.Timeout), mailSvc)

	// start API server
	var app echoapi.Server
	app = echoapi.NewServer(
		&echoapi.Options{
			Addr:        core.Conf.Server.Addr,
			Logger:      logger,
			ExchangeCli: exchangeCli,
			StudentSvc:  studentSvc,
			Shutdown: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.Stop(ctx); err != nil {
					logger.Error("stopping server", err)
				}
			},
		},
	)
	app.Start()
}
