package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/carlosrabelo/storecheck/application/services"
	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/ports"
	domain "github.com/carlosrabelo/storecheck/domain/services"
	"github.com/carlosrabelo/storecheck/infrastructure/config"
	"github.com/carlosrabelo/storecheck/infrastructure/notify"
	"github.com/carlosrabelo/storecheck/infrastructure/probe"
	"github.com/carlosrabelo/storecheck/infrastructure/report"
	"github.com/carlosrabelo/storecheck/infrastructure/transport"
	"github.com/carlosrabelo/storecheck/platform"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// options are the resolved command line and environment inputs
type options struct {
	Store      string
	ConfigPath string
	Overrides  config.Overrides
}

func newRootCmd(runFn func(context.Context, options) error) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:          "storecheck --data <store>",
		Short:        "Certify a store access-switch stack against the retail standard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(v)
			if opts.Overrides.Verbose && !cmd.Flags().Changed("v") {
				if err := goflag.Set("v", "1"); err != nil {
					return err
				}
			}
			return runFn(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringP("data", "d", "", "Store type and 4 digits of the store number, e.g. NKE1234 (required)")
	flags.String("config", "storecheck.yaml", "YAML configuration file")
	flags.String("output-dir", "", "Directory the report is written to")
	flags.Bool("skip-probe", false, "Do not check device reachability before testing")
	flags.String("slack-webhook", "", "Slack incoming webhook receiving the run summary")
	_ = cmd.MarkFlagRequired("data")
	bindFlags(v, flags)
	flags.AddGoFlagSet(goflag.CommandLine)
	return cmd
}

func bindFlags(v *viper.Viper, flags *flag.FlagSet) {
	for _, name := range []string{"data", "config", "output-dir", "skip-probe", "slack-webhook"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	_ = v.BindEnv("username", "AD_USERNAME")
	_ = v.BindEnv("password", "AD_PASSWORD")
	_ = v.BindEnv("enable-password", "STORECHECK_ENABLE_PASSWORD")
	_ = v.BindEnv("slack-webhook", "SLACK_WEBHOOK_URL")
	_ = v.BindEnv("snmp-community", "SNMP_COMMUNITY")
	_ = v.BindEnv("verbose", "VERBOSE")
}

func optionsFrom(v *viper.Viper) options {
	return options{
		Store:      v.GetString("data"),
		ConfigPath: v.GetString("config"),
		Overrides: config.Overrides{
			Username:       v.GetString("username"),
			Password:       v.GetString("password"),
			EnablePassword: v.GetString("enable-password"),
			OutputDir:      v.GetString("output-dir"),
			SlackWebhook:   v.GetString("slack-webhook"),
			SNMPCommunity:  v.GetString("snmp-community"),
			Verbose:        v.GetBool("verbose"),
			SkipProbe:      v.GetBool("skip-probe"),
		},
	}
}

// driverParser resolves the platform driver on first use, so that "auto" detection
// runs on the already established session
type driverParser struct {
	name string
	repo ports.SwitchRepository

	once   sync.Once
	driver platform.SwitchDriver
	err    error
}

func (p *driverParser) resolve() (platform.SwitchDriver, error) {
	p.once.Do(func() {
		p.driver, p.err = platform.Resolve(p.name, p.repo)
		if p.err == nil {
			log.V(1).Infof("using %s driver", p.driver.Name())
		}
	})
	return p.driver, p.err
}

func (p *driverParser) Parse(command string, mode entities.ParseMode, raw string) (*entities.CommandOutput, error) {
	driver, err := p.resolve()
	if err != nil {
		return nil, err
	}
	return driver.Parse(command, mode, raw)
}

func run(ctx context.Context, opts options) error {
	if opts.Store == "" {
		return fmt.Errorf("the --data parameter is required")
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(opts.Overrides); err != nil {
		return err
	}
	table, err := cfg.Standards()
	if err != nil {
		return err
	}

	hostname := cfg.Hostname(opts.Store)
	session := cfg.Session(hostname)
	log.Infof("storecheck %s (built %s): starting store test for %s (%s)", version, buildTime, opts.Store, hostname)

	pool := transport.NewSessionPool()
	defer pool.CloseAll()
	adapter := transport.NewSwitchAdapter(pool.Get(session))

	parser := &driverParser{name: session.PlatformID(), repo: adapter}
	if session.PlatformID() != platform.AutoDetect {
		driver, err := parser.resolve()
		if err != nil {
			return err
		}
		adapter.ConfigureLogin(driver.LoginSequence(session.Username, session.Password, session.EnablePassword))
	}

	reportPath := cfg.ReportPath(opts.Store, time.Now())
	sink, err := report.NewXLSXSink(reportPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Errorf("failed to close report: %v", err)
		}
	}()

	executor := services.NewCommandExecutor(adapter, parser)
	suite := domain.NewAccessSwitchSuite(domain.NewDeviceFacade(executor), table)

	appOpts := []services.Option{services.WithReportPath(reportPath)}
	if !cfg.SkipProbe {
		appOpts = append(appOpts, services.WithProber(probe.NewSNMPProber(cfg.SNMP.Community, cfg.SNMP.Port, cfg.SNMP.Timeout, cfg.SNMP.Retries, cfg.Port)))
	}
	if cfg.Slack.WebhookURL != "" {
		appOpts = append(appOpts, services.WithNotifier(notify.NewSlackNotifier(cfg.Slack.WebhookURL, cfg.Slack.Channel)))
	}

	svc := services.NewValidationApplicationService(opts.Store, hostname, suite, sink, &services.Sequence{}, appOpts...)
	summary, err := svc.Run(ctx)
	fmt.Printf("%s: %d passed, %d failed, report %s\n", hostname, summary.Passed, summary.Failed, reportPath)
	return err
}

func main() {
	defer log.Flush()
	_ = goflag.Set("logtostderr", "true")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		log.Errorf("storecheck: %v", err)
		log.Flush()
		stop()
		os.Exit(1)
	}
}
