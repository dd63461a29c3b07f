package announce

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"go.ntppool.org/common/logger"
)

// Config is the broker connection.
type Config struct {
	// Broker is a mqtt://, mqtts:// or ws:// url.
	Broker   string
	ClientID string
	Username string
	Password string
	TLS      *tls.Config
}

// Connect starts an auto-reconnecting broker connection. The client's
// online status is kept as a retained message on the status topic, with a
// will message marking it offline.
func Connect(ctx context.Context, cfg Config, topics *Topics) (*autopaho.ConnectionManager, error) {
	log := logger.FromContext(ctx)

	broker, err := url.Parse(cfg.Broker)
	if err != nil {
		return nil, fmt.Errorf("mqtt broker: %w", err)
	}
	if broker.Host == "" {
		return nil, fmt.Errorf("mqtt broker %q: missing host", cfg.Broker)
	}

	statusChannel := topics.Status(cfg.ClientID)

	log.InfoContext(ctx, "mqtt", "broker", broker.Redacted(), "clientID", cfg.ClientID)

	publishOnlineMessage := func(cm *autopaho.ConnectionManager) {
		msg, err := StatusMessageJSON(true)
		if err != nil {
			log.Warn("mqtt status error", "err", err)
			return
		}
		log.Debug("sending mqtt status message", "topic", statusChannel, "msg", msg)
		expireSeconds := uint32(86400)
		_, err = cm.Publish(ctx, &paho.Publish{
			Topic:   statusChannel,
			Payload: msg,
			QoS:     1,
			Retain:  true,
			Properties: &paho.PublishProperties{
				MessageExpiry: &expireSeconds,
			},
		})
		if err != nil {
			log.Warn("mqtt status publish error", "err", err)
		}
	}

	offlineMessage, err := StatusMessageJSON(false)
	if err != nil {
		return nil, fmt.Errorf("status message: %w", err)
	}

	mqttcfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{broker},
		CleanStartOnInitialConnection: true,
		SessionExpiryInterval:         60,
		TlsCfg:                        cfg.TLS,
		KeepAlive:                     120,

		ConnectUsername: cfg.Username,
		ConnectPassword: []byte(cfg.Password),

		WillMessage: &paho.WillMessage{
			Retain:  true,
			Topic:   statusChannel,
			Payload: offlineMessage,
		},
		WillProperties: &paho.WillProperties{
			WillDelayInterval: paho.Uint32(30),
			MessageExpiry:     paho.Uint32(86400),
		},

		OnConnectionUp: func(cm *autopaho.ConnectionManager, connAck *paho.Connack) {
			log.Info("mqtt connection up")
			publishOnlineMessage(cm)
		},
		OnConnectError: func(err error) {
			log.Error("mqtt connect", "err", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: cfg.ClientID,
			OnClientError: func(err error) {
				log.Error("mqtt client error", "err", err)
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				if d.Properties != nil {
					log.Error("mqtt server requested disconnect", "reason", d.Properties.ReasonString)
				} else {
					log.Error("mqtt server requested disconnect", "reasonCode", d.ReasonCode)
				}
			},
		},
	}

	errlog := logger.NewStdLog("mqtt error", true, log)
	mqttcfg.Errors = errlog
	mqttcfg.PahoErrors = errlog

	cm, err := autopaho.NewConnection(ctx, mqttcfg)
	if err != nil {
		return cm, err
	}

	go func() {
		for {
			select {
			case <-time.After(1 * time.Hour):
				publishOnlineMessage(cm)
			case <-cm.Done():
				return
			}
		}
	}()

	return cm, nil
}
