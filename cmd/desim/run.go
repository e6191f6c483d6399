package main

import (
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seeco-gmbh/SimJS/des"
	"github.com/seeco-gmbh/SimJS/internal/registry"
)

var (
	scenarioPath string
	logLevel     string
)

// runCmd loads a Scenario and drives it to completion. Grounded on
// inference-sim's runCmd (cmd/root.go): flags parsed, logrus level set,
// simulation built and run, a summary printed at the end.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a desim scenario to completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		scenario, err := LoadScenario(scenarioPath)
		if err != nil {
			return err
		}

		env := des.NewEnvironment(des.WithIDGenerator(des.NewXIDGenerator()))
		env.Register(des.NewLogObserver(log.New(os.Stderr, "", 0)))
		reg := registry.New(env)

		for _, rs := range scenario.Resources {
			res, err := des.NewResource(env, rs.Capacity)
			if err != nil {
				return err
			}
			if err := reg.RegisterResource(rs.Name, res); err != nil {
				return err
			}
		}

		for _, as := range scenario.Arrivals {
			as := as
			res, err := reg.ResourceByName(as.Resource)
			if err != nil {
				return err
			}
			env.Process(arrivalGenerator(env, res, as))
		}

		logrus.Infof("starting scenario %s: %d arrival stream(s), until=%v",
			scenarioPath, len(scenario.Arrivals), scenario.Until)

		start := time.Now()

		var until interface{}
		if scenario.Until > 0 {
			until = des.Time(scenario.Until)
		}

		if err := env.Run(until); err != nil {
			return err
		}

		logrus.Infof("scenario complete: virtual time %.2f, wall clock %v", float64(env.Now()), time.Since(start))

		for _, name := range resourceNames(scenario.Resources) {
			res, err := reg.ResourceByName(name)
			if err != nil {
				return err
			}
			logrus.Infof("resource %s: %d/%d in use, %d waiting", name, res.Users(), res.Capacity(), res.Queue())
		}

		return nil
	},
}

func resourceNames(specs []ResourceSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// arrivalGenerator spawns as.Count customer processes as.Interval ticks
// apart, each contending for res for as.ServiceTime ticks.
func arrivalGenerator(env *des.Environment, res *des.Resource, as ArrivalSpec) des.ProcessFunc {
	return func(ctx *des.ProcessContext) (interface{}, error) {
		for i := 0; i < as.Count; i++ {
			i := i
			env.Process(customer(env, res, as, i))

			if i == as.Count-1 {
				break
			}

			t, err := env.Timeout(des.Time(as.Interval), nil)
			if err != nil {
				return nil, err
			}
			if _, err := ctx.Yield(t); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
}

// customer acquires res, holds it for as.ServiceTime ticks, and releases it.
func customer(env *des.Environment, res *des.Resource, as ArrivalSpec, idx int) des.ProcessFunc {
	return func(ctx *des.ProcessContext) (interface{}, error) {
		req, err := res.Request()
		if err != nil {
			return nil, err
		}
		if _, err := ctx.Yield(req); err != nil {
			return nil, err
		}

		t, err := env.Timeout(des.Time(as.ServiceTime), nil)
		if err != nil {
			return nil, err
		}
		if _, err := ctx.Yield(t); err != nil {
			return nil, err
		}

		if _, err := res.Release(); err != nil {
			return nil, err
		}

		return idx, nil
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a scenario YAML file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
