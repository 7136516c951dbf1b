package diagnostics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MqttConfig names an MQTT broker connection, loaded from the TOML config file.
type MqttConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Prefix   string // topic prefix for published diagnostics, e.g. "uwb/"
}

// MqttSink publishes ranging results and status lines to an MQTT broker. Publishing
// is one-way; ranging diagnostics have no inbound control topics to subscribe to.
type MqttSink struct {
	conn   mqtt.Client
	prefix string
}

// NewMqttSink connects to the broker named by conf and returns a Sink that publishes
// under conf.Prefix.
func NewMqttSink(conf MqttConfig) (*MqttSink, error) {
	mqtt.ERROR = log.New(os.Stderr, "", 0)
	opts := mqtt.NewClientOptions().AddBroker(fmt.Sprintf("tcp://%s:%d", conf.Host, conf.Port))
	opts.ClientID = "dwrange"
	opts.Username = conf.User
	opts.Password = conf.Password

	client := mqtt.NewClient(opts)
	if token := client.Connect(); !token.WaitTimeout(10 * time.Second) {
		err := token.Error()
		if err == nil {
			err = fmt.Errorf("diagnostics: mqtt connect timed out")
		}
		return nil, err
	}
	return &MqttSink{conn: client, prefix: conf.Prefix}, nil
}

func (m *MqttSink) publish(topic string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	m.conn.Publish(m.prefix+topic, 1, false, body)
}

// RegRead is a no-op: register-level traffic is too high-volume for MQTT fan-out.
func (m *MqttSink) RegRead(name string, raw []byte) {}

// RegWrite is a no-op, for the same reason as RegRead.
func (m *MqttSink) RegWrite(name string, raw []byte) {}

func (m *MqttSink) Status(msg string) {
	m.publish("status", map[string]string{"msg": msg})
}

func (m *MqttSink) RangeResult(anchorID, tagID string, metres float64, ticks int64) {
	m.publish("range", map[string]interface{}{
		"anchor": anchorID,
		"tag":    tagID,
		"metres": metres,
		"ticks":  ticks,
	})
}

// Close disconnects from the broker.
func (m *MqttSink) Close() {
	m.conn.Disconnect(250)
}

var _ Sink = (*MqttSink)(nil)
