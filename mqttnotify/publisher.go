// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mqttnotify publishes volume changes to an MQTT broker.
//
// Topics are rooted at "<prefix>dsp/<id>/" where prefix comes from the broker
// URL path and id identifies the machine. "meta" is published on every
// connection, "volume" after every write attempt. Both are retained.
package mqttnotify

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/GermanBionicSystems/dspvolume/dsphttp"
	"github.com/GermanBionicSystems/dspvolume/sigmadsp"
)

const (
	appID = "dspvolume"
	// PublishTimeout bounds the wait for the broker to accept a message.
	PublishTimeout = 5 * time.Second
)

// client is the part of paho.Client used to publish.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher sends volume events to MQTT.
type Publisher struct {
	c      client
	conn   paho.Client
	prefix string
	id     string
}

type volumeMsg struct {
	Raw     string `json:"raw"`
	Percent int    `json:"percent"`
	Value   string `json:"value"`
	Error   string `json:"error,omitempty"`
}

type metaMsg struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Path     string `json:"path"`
	Register string `json:"register"`
}

// ClientOptionsFromURL creates ClientOptions from a broker URL. The URL path
// becomes the topic prefix and the "client-id" query value the client ID.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")
	if topicPrefix != "" && !strings.HasSuffix(topicPrefix, "/") {
		topicPrefix += "/"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}
	return opts, topicPrefix, nil
}

// MachineID returns an application specific ID of this machine, falling back
// to the host name.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("mqttnotify: machine id: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}

// New returns a Publisher for the broker at brokerURL. Call Connect before
// use.
func New(brokerURL string) (*Publisher, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("mqttnotify: %w", err)
	}
	p := &Publisher{prefix: prefix, id: MachineID()}
	if opts.ClientID == "" {
		opts.SetClientID(appID + "-" + p.id)
	}
	opts.SetOnConnectHandler(func(paho.Client) {
		glog.Info("mqttnotify: connected")
		p.publishMeta()
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("mqttnotify: connection lost: %v", err)
	})
	p.conn = paho.NewClient(opts)
	p.c = p.conn
	return p, nil
}

// Connect connects to the broker, waiting for the first attempt.
func (p *Publisher) Connect() error {
	token := p.conn.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (p *Publisher) Close() error {
	p.conn.Disconnect(250)
	return nil
}

// Topic returns the full topic for leaf.
func (p *Publisher) Topic(leaf string) string {
	return p.prefix + "dsp/" + p.id + "/" + leaf
}

// Notify publishes e. It does not wait for the broker; failures are logged.
// Its signature matches dsphttp.Options.Notify.
func (p *Publisher) Notify(e dsphttp.Event) {
	msg := volumeMsg{
		Raw:     e.Raw,
		Percent: e.Percent,
		Value:   fmt.Sprintf("0x%08x", e.Value),
	}
	if e.Err != nil {
		msg.Error = e.Err.Error()
	}
	p.publish("volume", msg)
}

func (p *Publisher) publishMeta() {
	p.publish("meta", metaMsg{ID: p.id, Service: appID, Path: dsphttp.Path, Register: fmt.Sprintf("0x%04x", sigmadsp.VolumeRegister)})
}

func (p *Publisher) publish(leaf string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("mqttnotify: encoding %s: %v", leaf, err)
		return
	}
	topic := p.Topic(leaf)
	glog.V(2).Infof("mqttnotify: PUB %q %s", topic, payload)
	token := p.c.Publish(topic, 0, true, payload)
	go func() {
		if !token.WaitTimeout(PublishTimeout) {
			glog.Warningf("mqttnotify: publishing %q timed out", topic)
			return
		}
		if err := token.Error(); err != nil {
			glog.Warningf("mqttnotify: publishing %q: %v", topic, err)
		}
	}()
}
