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
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	parklane "github.com/dustinlapp44/ParklaneCompare-sub000"
	"github.com/dustinlapp44/ParklaneCompare-sub000/api"
	"github.com/dustinlapp44/ParklaneCompare-sub000/database"
)

func serve(r http.Handler, conf parklaneInstance) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", conf.cnf.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logrus.Infof("serving on port %s", conf.cnf.Server.Port)
	return server.ListenAndServe()
}

func serverCommands(b *parklaneInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start parklane server",
		Run: func(cmd *cobra.Command, args []string) {
			ds, err := database.NewDataSource(b.cnf.DataSource.Path)
			if err != nil {
				logrus.Fatalf("Error opening datasource: %v", err)
			}
			defer ds.Close()

			router := api.NewAPI(parklane.NewParklane(ds)).Router()
			if err := serve(router, *b); err != nil {
				logrus.Fatalf("Error starting server: %v", err)
			}
		},
	}
	return cmd
}
