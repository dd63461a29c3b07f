package drawcmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"go.ntppool.org/common/config/depenv"
	"go.ntppool.org/common/health"
	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/metricsserver"
	"go.ntppool.org/common/tracing"
	"go.ntppool.org/common/version"

	"go.inspectdraw.org/draw/announce"
	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/draw"
	"go.inspectdraw.org/draw/selector"
	"go.inspectdraw.org/draw/server"
)

type serveCmd struct {
	Listen      string `default:":8000" env:"INSPECTDRAW_LISTEN" help:"HTTP listen address"`
	MetricsPort int    `name:"metrics-port" default:"9000" help:"Port for the Prometheus metrics (0 disables)"`
	HealthPort  int    `name:"health-port" default:"8080" help:"Port for the health check (0 disables)"`
	PublicURL   string `name:"public-url" env:"INSPECTDRAW_PUBLIC_URL" help:"URL encoded in the share QR code"`
	TLSCert     string `name:"tls-cert" type:"path" help:"TLS certificate"`
	TLSKey      string `name:"tls-key" type:"path" help:"TLS key"`

	MQTTBroker   string `name:"mqtt-broker" env:"INSPECTDRAW_MQTT_BROKER" help:"Publish results to this broker (mqtt://host:1883)"`
	MQTTClientID string `name:"mqtt-client-id" default:"inspectdraw" help:"MQTT client id"`
	MQTTUser     string `name:"mqtt-user" env:"INSPECTDRAW_MQTT_USER" help:"MQTT username"`
	MQTTPassword string `name:"mqtt-password" env:"INSPECTDRAW_MQTT_PASSWORD" help:"MQTT password"`

	DeployEnv string `name:"deploy-env" default:"devel" env:"DEPLOYMENT_MODE" help:"Deployment environment (devel, test, prod)"`
	Tracing   bool   `default:"false" help:"Export traces over OTLP"`
	Watch     bool   `default:"true" negatable:"" help:"Reload the catalog file when it changes"`

	animationFlags `embed:""`
}

func (cmd *serveCmd) Run(ctx context.Context, cli *CLI) error {
	log := logger.FromContext(ctx)

	depEnv := depenv.DeploymentEnvironmentFromString(cmd.DeployEnv)
	if depEnv == depenv.DeployUndefined {
		return fmt.Errorf("unknown deployment environment %q", cmd.DeployEnv)
	}

	log.InfoContext(ctx, "starting", "version", version.Version(), "env", depEnv.String())

	if cmd.Tracing {
		shutdown, err := tracing.InitTracer(ctx, &tracing.TracerConfig{
			ServiceName: name,
			Environment: depEnv.String(),
			EndpointURL: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		})
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn("tracing shutdown", "err", err)
			}
		}()
	}

	metricssrv := metricsserver.New()
	version.RegisterMetric(name, metricssrv.Registry())

	svc, l, err := cli.openService(ctx,
		draw.NewMetrics(metricssrv.Registry()),
		selector.NewMetrics(metricssrv.Registry()),
	)
	if err != nil {
		return err
	}
	defer l.Close()

	g, ctx := errgroup.WithContext(ctx)

	if cmd.MQTTBroker != "" {
		topics := announce.NewTopics(depEnv)
		cm, err := announce.Connect(ctx, announce.Config{
			Broker:   cmd.MQTTBroker,
			ClientID: cmd.MQTTClientID,
			Username: cmd.MQTTUser,
			Password: cmd.MQTTPassword,
		}, topics)
		if err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
		svc.AddAnnouncer(announce.NewAnnouncer(cm, topics))

		g.Go(func() error {
			<-cm.Done()
			log.Info("mqtt connection done")
			return nil
		})
	}

	if cmd.MetricsPort > 0 {
		g.Go(func() error {
			return metricssrv.ListenAndServe(ctx, cmd.MetricsPort)
		})
	}

	if cmd.HealthPort > 0 {
		g.Go(func() error {
			health.HealthCheckListener(ctx, cmd.HealthPort, log)
			return nil
		})
	}

	if cmd.Watch {
		g.Go(func() error {
			return catalog.Watch(ctx, cli.catalogPath(), svc.SetCatalog)
		})
	}

	srv := server.NewServer(log, server.Config{
		Listen:    cmd.Listen,
		PublicURL: cmd.PublicURL,
		TLSCert:   cmd.TLSCert,
		TLSKey:    cmd.TLSKey,
		Animate:   cmd.options(),
	}, svc)

	g.Go(func() error {
		return srv.Run(ctx)
	})

	return g.Wait()
}
