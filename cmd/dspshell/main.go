// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dspshell is an interactive shell for poking SigmaDSP parameters on the
// bench.
package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/dspvolume/sigmadsp"
)

var (
	busName = ""
	address = "0x38"

	errUsage = errors.New("wrong number of arguments")
)

func init() {
	flag.StringVar(&busName, "bus", busName, "I²C bus name.")
	flag.StringVar(&address, "addr", address, "7 bit DSP address.")
}

func parseUint(s string, bits int) (uint64, error) {
	// Base 0 accepts 0x prefixed hex.
	return strconv.ParseUint(s, 0, bits)
}

func volume(dev *sigmadsp.Dev, args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	p, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	v, err := dev.SetVolume(p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%04x <- 0x%08x", sigmadsp.VolumeRegister, v), nil
}

func write(dev *sigmadsp.Dev, args []string) (string, error) {
	if len(args) != 2 {
		return "", errUsage
	}
	reg, err := parseUint(args[0], 16)
	if err != nil {
		return "", err
	}
	val, err := parseUint(args[1], 32)
	if err != nil {
		return "", err
	}
	if err := dev.WriteRegister(uint16(reg), uint32(val)); err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%04x <- 0x%08x", reg, val), nil
}

// encode shows the frame as it would be sent to the device at addr.
func encode(addr i2c.Addr, args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	p, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	v := sigmadsp.Encode(p)
	return fmt.Sprintf("0x%08x  [% x]", v, sigmadsp.Frame(addr, sigmadsp.VolumeRegister, v)), nil
}

// run adapts a command to ishell.
func run(f func(args []string) (string, error)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		out, err := f(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(out)
	}
}

func commands(dev *sigmadsp.Dev, addr i2c.Addr) []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "volume",
			Help: "volume <percent>: set the master volume",
			Func: run(func(args []string) (string, error) { return volume(dev, args) }),
		},
		{
			Name: "write",
			Help: "write <register> <value>: write a raw parameter",
			Func: run(func(args []string) (string, error) { return write(dev, args) }),
		},
		{
			Name: "encode",
			Help: "encode <percent>: show the register value and wire bytes",
			Func: run(func(args []string) (string, error) { return encode(addr, args) }),
		},
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()
	addr, err := parseUint(address, 16)
	if err != nil {
		glog.Fatalf("-addr: %v", err)
	}
	if _, err := host.Init(); err != nil {
		glog.Fatal(err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		glog.Fatal(err)
	}
	defer bus.Close()
	dev, err := sigmadsp.New(bus, i2c.Addr(addr))
	if err != nil {
		glog.Fatal(err)
	}

	shell := ishell.New()
	shell.SetPrompt(fmt.Sprintf("%s> ", dev))
	for _, cmd := range commands(dev, i2c.Addr(addr)) {
		shell.AddCmd(cmd)
	}
	shell.Run()
}
