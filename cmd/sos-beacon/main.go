// Command sos-beacon polls two switches and flashes SOS on the LEDs while they are held.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/sos-beacon/internal/delay"
	"github.com/sweeney/sos-beacon/internal/gpio"
	"github.com/sweeney/sos-beacon/internal/logic"
	"github.com/sweeney/sos-beacon/internal/mqtt"
	"github.com/sweeney/sos-beacon/internal/pattern"
	"github.com/sweeney/sos-beacon/internal/status"
	"github.com/sweeney/sos-beacon/internal/web"
)

type options struct {
	poll       time.Duration
	heartbeat  time.Duration
	broker     string
	httpAddr   string
	chip       string
	lines      gpio.LineMap
	trigger    logic.Trigger
	busy       bool
	printState bool
}

func main() {
	var opts options
	var trigger string
	flag.DurationVar(&opts.poll, "poll", 10*time.Millisecond, "Switch polling interval")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.StringVar(&opts.httpAddr, "http", "", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.chip, "chip", "gpiochip0", "GPIO chip device")
	flag.IntVar(&opts.lines.SW1, "pin-sw1", gpio.DefaultLineMap.SW1, "Line offset for switch 1")
	flag.IntVar(&opts.lines.SW2, "pin-sw2", gpio.DefaultLineMap.SW2, "Line offset for switch 2")
	flag.IntVar(&opts.lines.Red, "pin-red", gpio.DefaultLineMap.Red, "Line offset for the red LED")
	flag.IntVar(&opts.lines.Blue, "pin-blue", gpio.DefaultLineMap.Blue, "Line offset for the blue LED")
	flag.IntVar(&opts.lines.Green, "pin-green", gpio.DefaultLineMap.Green, "Line offset for the green LED")
	flag.StringVar(&trigger, "trigger", string(logic.TriggerBoth), `Switch behaviour: "both" (hold SW1+SW2) or "latch" (SW1 starts, SW2 stops)`)
	flag.BoolVar(&opts.busy, "busy", false, "Use the calibrated busy-wait delay instead of the OS timer")
	flag.BoolVar(&opts.printState, "print-state", false, "Print current switch state and exit")

	flag.Parse()

	t, err := logic.ParseTrigger(trigger)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	opts.trigger = t

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options) error {
	port, err := gpio.NewLinePort(opts.chip, opts.lines)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer port.Close()

	if opts.printState {
		levels, err := port.Read(gpio.Inputs)
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		sw1, sw2 := gpio.Pressed(levels)
		fmt.Printf("SW1: %s, SW2: %s\n", status.SwitchString(sw1), status.SwitchString(sw2))
		return nil
	}

	var publisher mqtt.Publisher = nopPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		p, err := mqtt.NewRealPublisher(opts.broker, "sos-beacon")
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher, mqttStatus = p, p
	}

	var sleeper delay.Sleeper = delay.Wall{}
	if opts.busy {
		sleeper = delay.Busy{}
	}
	player := pattern.NewPlayer(port, sleeper, gpio.Yellow, pattern.SOS)

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      opts.poll.Milliseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		CycleMs:     pattern.SOS.Duration().Milliseconds(),
		Trigger:     string(opts.trigger),
		Pattern:     pattern.SOS.Name,
		Broker:      opts.broker,
		HTTPAddr:    opts.httpAddr,
	})
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}

	startup := mqtt.SystemEvent{
		Timestamp:  time.Now(),
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: poll=%v trigger=%s busy=%v broker=%q heartbeat=%v", opts.poll, opts.trigger, opts.busy, opts.broker, opts.heartbeat)

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sup := logic.NewSupervisor(opts.trigger, time.Now())
	return runLoop(port, player, sup, publisher, mqttStatus, tracker, opts.heartbeat, time.Now, ticker.C, sigCh)
}

// runLoop samples the switches on every tick and plays one cycle whenever the
// supervisor asks for it. A cycle runs to completion; signals are handled
// between cycles.
func runLoop(port gpio.Port, player *pattern.Player, sup *logic.Supervisor, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			reason := signalName(s)

			if err := port.Clear(gpio.Outputs); err != nil {
				log.Printf("clear outputs: %v", err)
			}

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    reason,
				Retained:  true,
			}
			if tracker != nil {
				refreshMQTT(tracker, mqttStatus)
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			levels, err := port.Read(gpio.Inputs)
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}
			sw1, sw2 := gpio.Pressed(levels)
			in := logic.Input{SW1: sw1, SW2: sw2, Time: t}

			events, play := sup.Process(in)
			for _, event := range events {
				log.Printf("event: %s (cycles=%d)", event.Type, event.Cycles)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			if tracker != nil {
				tracker.Update(in, sup.State(), sup.CountsSnapshot())
				refreshMQTT(tracker, mqttStatus)
			}

			if play {
				if tracker != nil {
					tracker.SetPlaying(true)
				}
				if err := player.Play(); err != nil {
					log.Printf("pattern error: %v", err)
				}
				sup.CycleDone()
				if tracker != nil {
					tracker.SetPlaying(false)
					tracker.Update(in, sup.State(), sup.CountsSnapshot())
				}
			}

			if hb := sup.CheckHeartbeat(t, heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v starts=%d stops=%d cycles=%d",
					hb.Uptime, hb.Counts.Starts, hb.Counts.Stops, hb.Counts.Cycles)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func refreshMQTT(tracker *status.Tracker, mqttStatus mqtt.ConnectionStatus) {
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// nopPublisher is used when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) Publish(logic.Event) error            { return nil }
func (nopPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }
func (nopPublisher) Close() error                         { return nil }
