// Package config loads testbed host configuration.
//
// Sources are layered, later ones winning:
//
//  1. embedded defaults
//  2. the user file, <XDG config dir>/testbed/config.toml
//  3. the first project file found in the project directory:
//     .testbed.toml, testbed.toml, .testbed.yaml, testbed.yaml
//  4. an explicit file passed with --config
//  5. environment variables, TESTBED_<SECTION>__<KEY>
//     (TESTBED_ROOTS__WORK, TESTBED_RETRY__DELETE_BUDGET)
//  6. overrides from command-line flags
package config
