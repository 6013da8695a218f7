// Package lib provides a Go SDK to run the daily farm tasks of accounts
// programmatically.
//
// It runs the same task sequence as the farmer CLI without shelling out to
// the binary, useful to embed the runs on schedulers or bots.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{
//	    SignSecret: os.Getenv("FARMER_SIGN_SECRET"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, err := client.Run(ctx, lib.Account{
//	    ID:     "alice",
//	    Cookie: os.Getenv("ALICE_COOKIE"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("got %d drops\n", report.TotalReward)
//
// # Run reports
//
// A run never fails because a single task failed, every task outcome is on
// [RunReport].Steps. When the farm state, the task list or the clock-in page
// can't be read the run stops early and [RunReport].Aborted is set with the
// reason. Errors returned by [Client.Run] are only input or storage errors.
//
// # History
//
// Reports are kept in memory by default. Set [Config].DBPath to store them on
// a SQLite database shared with the CLI, and read them with [Client.History].
//
// # Error Handling
//
// Errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: Resource does not exist.
//   - [ErrNotValid]: Invalid input (e.g. an account without cookie).
//
// # Logging
//
// The SDK is silent by default. Set [Config].Logger to receive logs, see the
// log sub-package for the interface.
package lib
