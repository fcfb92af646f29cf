package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/modlearn/modlearn/app/core"
	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/pkg/safe"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "media service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	startCronJobs(app)
	serve(app)

	return nil
}

// startCronJobs 后台定时任务，目前只有超时订单关单
func startCronJobs(app *core.Core) {
	c := cron.New()
	spec := app.Cfg().Order.Cron()
	if _, err := c.AddFunc(spec, func() {
		safe.Run(func() {
			v1.SweepExpiredOrders(context.Background(), app)
		})
	}); err != nil {
		panic(err)
	}
	c.Start()
	slog.Info("order sweep cron started", slog.String("spec", spec))
}
