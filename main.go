/*
 * PPC60x - Main program
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	"github.com/rcornwell/PPC60x/command/reader"
	config "github.com/rcornwell/PPC60x/config/configparser"
	"github.com/rcornwell/PPC60x/config/machineconfig"
	"github.com/rcornwell/PPC60x/emu/master"
	"github.com/rcornwell/PPC60x/emu/timer"
	"github.com/rcornwell/PPC60x/util/debug"
	"github.com/rcornwell/PPC60x/util/logger"

	_ "github.com/rcornwell/PPC60x/config/debugconfig"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "PPC60x.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile io.Writer
	if *optLogFile != "" {
		file, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("Unable to create log file", "file", *optLogFile, "error", err)
			os.Exit(1)
		}
		defer file.Close()
		logFile = file
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	slog.SetDefault(slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, *optDebug)))

	slog.Info("PPC60x Started")
	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		slog.Error("Configuration file can't be found", "file", *optConfig)
		os.Exit(1)
	}

	if err := config.LoadConfigFile(*optConfig); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	masterChannel := make(chan master.Packet)
	machine := machineconfig.Current()
	sys, err := machine.Build(masterChannel)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	// Start main emulator.
	go sys.Start()

	slice := timer.NewTimer(masterChannel, machine.Slice)
	slice.Start()

	if machine.Start {
		if err := sys.SendStart(); err != nil {
			slog.Error("Unable to start processors", "error", err)
		}
	}

	msg := make(chan struct{})
	go func() {
		reader.ConsoleReader(sys)
		close(msg)
	}()

	// Wait for console to quit.
	<-msg

	slice.Shutdown()
	sys.Stop()
	if err := debug.Close(); err != nil {
		slog.Warn("Closing debug file", "error", err)
	}
	slog.Info("PPC60x stopped")
}
