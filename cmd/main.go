/*
Copyright 2025 Parklane Compare Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dustinlapp44/ParklaneCompare-sub000/config"
)

type parklaneInstance struct {
	cnf *config.Configuration
}

var configFile string

func preRun(instance *parklaneInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(configFile); err != nil {
			return err
		}
		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		instance.cnf = cnf
		return nil
	}
}

func recoverPanic() {
	if r := recover(); r != nil {
		logrus.Errorf("Recovered from panic: %v", r)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	instance := &parklaneInstance{}
	rootCmd := &cobra.Command{
		Use:               "parklane",
		Short:             "Reconciles property-management invoices against payment-processor exports",
		PersistentPreRunE: preRun(instance),
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "parklane.json", "configuration file")
	rootCmd.AddCommand(reconcileCommands(instance))
	rootCmd.AddCommand(serverCommands(instance))

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
