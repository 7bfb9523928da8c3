/*
   FluxDrive - vintage floppy flux decoder
   Copyright (c) 2026, Alexander Vollschwitz

   This file is part of FluxDrive.

   FluxDrive is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FluxDrive is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FluxDrive. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//
const epilogueHeader = `
Notes:

`

/*
	The package initializer sets up logging based on logrus. The following
	environment variables can be used to configure logging:

		LOG_FORMAT		set to `json` for JSON logging
		LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
		LOG_METHODS		set to non-empty for including methods in log
		LOG_LEVEL		`panic`, `fatal`, `error`, `warn`, `info`, `debug`, `trace`
*/
func init() {

	log.SetOutput(os.Stdout)

	switch {
	case strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"):
		log.SetFormatter(&log.JSONFormatter{})
	case os.Getenv("LOG_FORCE_COLORS") != "":
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	}

	if os.Getenv("LOG_METHODS") != "" {
		log.SetReportCaller(true)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if l, err := log.ParseLevel(level); err != nil {
			log.Errorf("invalid log level: '%s'; valid levels are: panic, "+
				"fatal, error, warn, info, debug, trace", level)
		} else {
			log.SetLevel(l)
		}
	}
}

// DieOnError exits the running process if e is not nil.
func DieOnError(e error) {
	if e != nil {
		fmt.Printf("%v\n", e)
		os.Exit(1)
	}
}

// Die exits the running process, printing the given message.
func Die(msg string, params ...interface{}) {
	fmt.Println(strings.TrimSuffix(fmt.Sprintf(msg, params...), "\n"))
	os.Exit(1)
}

/*
	NewCommand creates a base command instance, wrapping a new Cobra command.
	The	exec function is invoked when the command's Execute method is called.
*/
func NewCommand(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Command {

	ret := Command{
		cmd: &cobra.Command{
			Use:   use,
			Short: short,
			Long:  long,
			RunE: func(*cobra.Command, []string) error {
				return exec()
			},
			SilenceErrors:         true,
			SilenceUsage:          true,
			DisableFlagsInUseLine: true,
		},
		helpPrologue: helpPrologue,
		helpEpilogue: helpEpilogue,
	}
	ret.helpFunc = ret.cmd.HelpFunc()
	ret.cmd.SetHelpFunc(ret.help)
	return &ret
}

/*
	Command is a wrapper around Cobra & Viper. It keeps the flag, environment
	variable, default value, and required check of a setting together in a
	single AddSetting call, and resolves all settings in one place. Only the
	setting types the fluxctl commands actually use are supported: string,
	int, and repeatable string.
*/
type Command struct {
	//
	cmd *cobra.Command
	//
	settings []*setting
	//
	helpPrologue string
	helpEpilogue string
	helpFunc     func(*cobra.Command, []string)
}

//
func (c *Command) help(cmd *cobra.Command, args []string) {
	if c.helpPrologue != "" {
		fmt.Fprintln(cmd.OutOrStdout(), c.helpPrologue)
	}
	if c.helpFunc != nil {
		c.helpFunc(cmd, args)
	}
	if c.helpEpilogue != "" {
		fmt.Fprintln(cmd.OutOrStdout(), epilogueHeader+c.helpEpilogue)
	} else {
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

/*
	Execute invokes the exec function that was set on this command when it was
	created. If args is of non-zero length, it overrides os.Args.
*/
func (c *Command) Execute(args []string) error {
	if len(args) > 0 {
		c.cmd.SetArgs(args)
	}
	return c.cmd.Execute()
}

/*
	AddSetting adds a setting to this command. Target is a pointer to the
	variable to which the setting should be bound; it decides the setting's
	type. Flag specifies the long (double-dash) command line flag for the
	setting, short its short (single-dash) version, and env the name of the
	environment variable that may carry this setting. A command line flag,
	when specified, overrides the environment variable. def is a default
	value for the setting; when set to nil, the default value will be the
	zero value of the setting's type. help carries online help info about
	this setting, and required specifies whether this is a mandatory setting.
*/
func (c *Command) AddSetting(target interface{}, flag, short, env string,
	def interface{}, help string, required bool) {

	if required && def != nil {
		Die("required setting '%s' does not take a default value", flag)
	}

	if env != "" {
		help = fmt.Sprintf("%s (%s)", help, env)
	}

	log.Tracef("add setting: flag=%s, env=%s", flag, env)

	s := &setting{flag: flag, env: env, required: required}
	flags := c.cmd.Flags()

	switch bound := target.(type) {

	case *string:
		d := ""
		if def != nil {
			var ok bool
			if d, ok = def.(string); !ok {
				Die("default value for setting '%s' is not a string", flag)
			}
		}
		flags.StringVarP(bound, flag, short, d, help)
		s.resolve = func() error {
			*bound = viper.GetString(flag)
			return s.checkRequired(*bound == "")
		}

	case *int:
		d := 0
		if def != nil {
			var ok bool
			if d, ok = def.(int); !ok {
				Die("default value for setting '%s' is not an int", flag)
			}
		}
		flags.IntVarP(bound, flag, short, d, help)
		s.resolve = func() error {
			*bound = viper.GetInt(flag)
			return s.checkRequired(*bound == 0)
		}

	case *[]string:
		if env != "" {
			Die("cannot use environment variable on list setting '%s'", flag)
		}
		if def != nil {
			Die("list setting '%s' does not take a default value", flag)
		}
		flags.StringSliceVarP(bound, flag, short, nil, help)
		s.resolve = func() error {
			*bound = viper.GetStringSlice(flag)
			return s.checkRequired(len(*bound) == 0)
		}

	default:
		Die("setting '%s' is of unsupported type", flag)
	}

	viper.BindPFlag(flag, flags.Lookup(flag))
	if env != "" {
		viper.BindEnv(flag, env)
	}

	c.settings = append(c.settings, s)
}

/*
	ParseSettings resolves all settings that have been added thus far via the
	AddSetting method. Afterwards, setting values are available in the
	variables to which they were bound. This should be called in the exec
	function that was set on this command when it was created, before any
	references to variables that are bound to settings.
*/
func (c *Command) ParseSettings() {
	for _, s := range c.settings {
		DieOnError(s.get())
	}
}

//
type setting struct {
	flag     string
	env      string
	required bool
	resolve  func() error
}

//
func (s *setting) get() error {
	log.Tracef("get setting: flag=%s", s.flag)
	// Viper's BindEnv does not write through to the bound variable, so the
	// value is always pulled from Viper here, which consults flag,
	// environment variable, and default in that order.
	err := s.resolve()
	if viper.IsSet(s.flag) {
		log.Tracef("setting %s resolved from flag or env", s.flag)
	}
	return err
}

//
func (s *setting) checkRequired(missing bool) error {
	if !s.required || !missing {
		return nil
	}
	msg := fmt.Sprintf(
		"you need to specify the --%s command line flag", s.flag)
	if s.env != "" {
		msg = fmt.Sprintf("%s or the %s environment variable", msg, s.env)
	}
	return fmt.Errorf("%s", msg)
}
