package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/trezcool/kumbusha/core"
	"github.com/trezcool/kumbusha/core/alert"
	"github.com/trezcool/kumbusha/core/roster"
	emailsvc "github.com/trezcool/kumbusha/services/email"
	"github.com/trezcool/kumbusha/storage/database"
	"github.com/trezcool/kumbusha/storage/database/inmem"
)

var (
	nowFunc = time.Now // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger

	mailSvc core.EmailService // mockable; nil selects by config
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  run [-file PATH]   - load the roster and send due-deadline reminders")
	fmt.Println("  check [-file PATH] - dry run: evaluate the roster and print reminders to the console")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	runFile := runCmd.String("file", "", "Roster file path; overrides the configured path.")
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	checkFile := checkCmd.String("file", "", "Roster file path; overrides the configured path.")

	switch args[1] {
	case "run":
		if err := runCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.remind(*runFile, false)
	case "check":
		if err := checkCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.remind(*checkFile, true)
	default:
		cli.printUsage()
		return errHelp
	}
}

// remind runs the whole pipeline: load, evaluate, dispatch. Handled pipeline
// failures (bad roster, undeliverable mail) never surface as process errors;
// they are alerted and logged inside the pipeline.
func (cli *commandLine) remind(path string, dryRun bool) error {
	conf := cli.conf
	if path == "" {
		path = conf.RosterPath
	}

	mailSvc := cli.mailSvc
	if mailSvc == nil {
		mailSvc = newMailService(conf, cli.logger, dryRun)
	}
	alerter := alert.NewAdminAlerter(conf, mailSvc, cli.logger)

	loader := roster.NewLoader(conf, alerter, cli.logger)
	students, err := loader.Load(path)
	if err != nil {
		// already logged and alerted; nothing to process
		return nil
	}
	if len(students) == 0 {
		cli.logger.Info("no students to monitor; nothing to do")
		return nil
	}

	dispatcher := roster.NewDispatcher(conf, mailSvc, alerter, cli.logger, cli.sentLog(dryRun))
	dispatcher.Run(students, nowFunc())
	return nil
}

func (cli *commandLine) sentLog(dryRun bool) roster.SentLog {
	if dryRun {
		return inmem.NewSentLog()
	}
	if cli.conf.SentLogPath == "" {
		return nil
	}
	db, err := database.Open(cli.conf.SentLogPath)
	if err != nil {
		// a broken ledger must never block the run
		cli.logger.Warn(fmt.Sprintf("opening sent log: %v; continuing without dedup", err))
		return nil
	}
	return database.NewSentLogRepository(db)
}

func newMailService(conf *core.Config, logger core.Logger, dryRun bool) core.EmailService {
	switch {
	case dryRun || conf.Debug:
		return emailsvc.NewConsoleService(conf)
	case conf.SendgridApiKey != "":
		return emailsvc.NewSendgridService(conf, logger)
	default:
		return emailsvc.NewSMTPService(conf, logger)
	}
}
