// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the settings of a uniqstr run. Values come from
// defaults, then an optional toml file, then command line flags that were
// set explicitly.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/strategy"
	"github.com/pingcap/uniqstr/pkg/uniq"
	"github.com/pingcap/uniqstr/pkg/util/logutil"
	"github.com/spf13/pflag"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

const (
	flagConfig            = "config"
	flagExpectedRecords   = "expected-records"
	flagStrategy          = "strategy"
	flagIterations        = "iterations"
	flagPartitions        = "partitions"
	flagParallelThreshold = "parallel-threshold"
	flagConcurrency       = "concurrency"
	flagShardHash         = "shard-hash"
	flagVerify            = "verify"
	flagPrintUniques      = "print-uniques"
	flagMetricsFile       = "metrics-file"
	flagLogLevel          = "log-level"
	flagLogFormat         = "log-format"
	flagLogFile           = "log-file"
	flagSQLDSN            = "sql-dsn"
	flagSQLQuery          = "sql-query"
	flagTop               = "top"
	flagProgress          = "progress"

	// DefaultIterations is the default number of timed passes.
	DefaultIterations = 3
	// DefaultParallelThreshold is the default smallest sub-range sorted with
	// a fan-out. uniq.SorterConfig defaults to 0, which sorts on one goroutine.
	DefaultParallelThreshold = 4096
)

// Config is the configuration of a run.
type Config struct {
	// Input is the corpus file. It is taken from the command line
	// arguments, not from a flag.
	Input string `toml:"input" json:"input"`
	// ExpectedRecords is the record count the corpus must have. Negative
	// disables the check.
	ExpectedRecords int `toml:"expected-records" json:"expected-records"`
	// Strategy is a strategy name or numeric id.
	Strategy          string `toml:"strategy" json:"strategy"`
	Iterations        int    `toml:"iterations" json:"iterations"`
	Partitions        int    `toml:"partitions" json:"partitions"`
	ParallelThreshold int    `toml:"parallel-threshold" json:"parallel-threshold"`
	Concurrency       int    `toml:"concurrency" json:"concurrency"`
	ShardHash         string `toml:"shard-hash" json:"shard-hash"`
	Verify            bool   `toml:"verify" json:"verify"`
	PrintUniques      bool   `toml:"print-uniques" json:"print-uniques"`
	// MetricsFile receives the prometheus metrics after the run, if set.
	MetricsFile string `toml:"metrics-file" json:"metrics-file"`
	// SQLDSN is a MySQL DSN. When set, the corpus is the single column
	// returned by SQLQuery instead of Input.
	SQLDSN   string `toml:"sql-dsn" json:"sql-dsn"`
	SQLQuery string `toml:"sql-query" json:"sql-query"`
	// Top is the number of most frequent strings to report, 0 for none.
	Top      int  `toml:"top" json:"top"`
	Progress bool `toml:"progress" json:"progress"`

	Log logutil.Config `toml:"log" json:"log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ExpectedRecords:   -1,
		Strategy:          "merge",
		Iterations:        DefaultIterations,
		Partitions:        uniq.DefaultPartitions,
		ParallelThreshold: DefaultParallelThreshold,
		Concurrency:       uniq.DefaultPartitions,
		ShardHash:         strategy.DefaultShardHash,
		Verify:            true,
		Log:               logutil.NewConfig(),
	}
}

// Load loads config options from a toml file.
func (conf *Config) Load(confFile string) error {
	_, err := toml.DecodeFile(confFile, conf)
	return errors.Trace(err)
}

// DefineFlags defines flags of the run command.
func (*Config) DefineFlags(flags *pflag.FlagSet) {
	def := DefaultConfig()
	flags.StringP(flagConfig, "c", "", "Path to a toml config file")
	flags.IntP(flagExpectedRecords, "n", def.ExpectedRecords, "Number of records the input must contain, negative to skip the check")
	flags.StringP(flagStrategy, "s", def.Strategy, "Counting strategy, by name or id")
	flags.IntP(flagIterations, "i", def.Iterations, "Number of timed passes")
	flags.IntP(flagPartitions, "p", def.Partitions, "Number of partitions counted in parallel")
	flags.Int(flagParallelThreshold, def.ParallelThreshold, "Smallest sub-range whose halves are sorted in parallel, 0 disables the fan-out")
	flags.IntP(flagConcurrency, "t", def.Concurrency, "Number of worker goroutines")
	flags.String(flagShardHash, def.ShardHash, "Hash used by the sharded strategy: murmur3, xxh3 or farm")
	flags.Bool(flagVerify, def.Verify, "Cross-check every pass against the reference count")
	flags.Bool(flagPrintUniques, def.PrintUniques, "Print every distinct string with its count")
	flags.String(flagMetricsFile, def.MetricsFile, "Write prometheus metrics to this file after the run")
	flags.String(flagLogLevel, def.Log.Level, "Log level: debug, info, warn, error")
	flags.String(flagLogFormat, def.Log.Format, "Log format: text or json")
	flags.String(flagLogFile, def.Log.File, "Log file, empty for stderr")
	flags.String(flagSQLDSN, def.SQLDSN, "Read the corpus from MySQL with this DSN instead of a file")
	flags.String(flagSQLQuery, def.SQLQuery, "Query returning one column of strings, used with --sql-dsn")
	flags.Int(flagTop, def.Top, "Report the N most frequent strings")
	flags.Bool(flagProgress, def.Progress, "Show a progress bar over the iterations")
}

// ParseFromFlags loads the config file named by --config, if any, then
// applies the flags that were set on the command line.
func (conf *Config) ParseFromFlags(flags *pflag.FlagSet) error {
	file, err := flags.GetString(flagConfig)
	if err != nil {
		return errors.Trace(err)
	}
	if file != "" {
		if err := conf.Load(file); err != nil {
			return err
		}
	}

	var firstErr error
	flags.Visit(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		firstErr = conf.applyFlag(flags, f.Name)
	})
	return errors.Trace(firstErr)
}

func (conf *Config) applyFlag(flags *pflag.FlagSet, name string) (err error) {
	switch name {
	case flagExpectedRecords:
		conf.ExpectedRecords, err = flags.GetInt(name)
	case flagStrategy:
		conf.Strategy, err = flags.GetString(name)
	case flagIterations:
		conf.Iterations, err = flags.GetInt(name)
	case flagPartitions:
		conf.Partitions, err = flags.GetInt(name)
	case flagParallelThreshold:
		conf.ParallelThreshold, err = flags.GetInt(name)
	case flagConcurrency:
		conf.Concurrency, err = flags.GetInt(name)
	case flagShardHash:
		conf.ShardHash, err = flags.GetString(name)
	case flagVerify:
		conf.Verify, err = flags.GetBool(name)
	case flagPrintUniques:
		conf.PrintUniques, err = flags.GetBool(name)
	case flagMetricsFile:
		conf.MetricsFile, err = flags.GetString(name)
	case flagLogLevel:
		conf.Log.Level, err = flags.GetString(name)
	case flagLogFormat:
		conf.Log.Format, err = flags.GetString(name)
	case flagLogFile:
		conf.Log.File, err = flags.GetString(name)
	case flagSQLDSN:
		conf.SQLDSN, err = flags.GetString(name)
	case flagSQLQuery:
		conf.SQLQuery, err = flags.GetString(name)
	case flagTop:
		conf.Top, err = flags.GetInt(name)
	case flagProgress:
		conf.Progress, err = flags.GetBool(name)
	}
	return err
}

// Validate checks the config.
func (conf *Config) Validate() error {
	if conf.Iterations < 1 {
		return errors.Annotatef(ErrInvalidConfig, "iterations must be positive, got %d", conf.Iterations)
	}
	if conf.Partitions < 1 {
		return errors.Annotatef(ErrInvalidConfig, "partitions must be positive, got %d", conf.Partitions)
	}
	if conf.Concurrency < 1 {
		return errors.Annotatef(ErrInvalidConfig, "concurrency must be positive, got %d", conf.Concurrency)
	}
	if conf.ParallelThreshold < 0 {
		return errors.Annotatef(ErrInvalidConfig, "parallel threshold must not be negative, got %d", conf.ParallelThreshold)
	}
	if conf.Top < 0 {
		return errors.Annotatef(ErrInvalidConfig, "top must not be negative, got %d", conf.Top)
	}
	if _, err := strategy.Lookup(conf.Strategy); err != nil {
		return errors.Annotate(ErrInvalidConfig, err.Error())
	}
	if _, err := strategy.HashByName(conf.ShardHash); err != nil {
		return errors.Annotate(ErrInvalidConfig, err.Error())
	}
	return nil
}

// CheckSource checks that the config names exactly one corpus source.
func (conf *Config) CheckSource() error {
	if conf.SQLDSN == "" {
		if conf.Input == "" {
			return errors.Annotate(ErrInvalidConfig, "no input file")
		}
		return nil
	}
	if conf.Input != "" {
		return errors.Annotate(ErrInvalidConfig, "both an input file and a SQL source are given")
	}
	if conf.SQLQuery == "" {
		return errors.Annotate(ErrInvalidConfig, "sql-query is required with sql-dsn")
	}
	if _, err := mysql.ParseDSN(conf.SQLDSN); err != nil {
		return errors.Annotate(ErrInvalidConfig, err.Error())
	}
	return nil
}

// StrategyConfig returns the part of the config the strategies read.
func (conf *Config) StrategyConfig() strategy.Config {
	return strategy.Config{
		Partitions:        conf.Partitions,
		ParallelThreshold: conf.ParallelThreshold,
		Concurrency:       conf.Concurrency,
		ShardHash:         conf.ShardHash,
		Verify:            conf.Verify,
	}
}
