package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophtasks/internal/flagx"
)

var knownFlags = []string{
	"-a", "-g", "-e", "-d", "-s", "-t", "-k", "-l",
	"-db-max-open-conns", "-db-max-idle-conns", "-db-max-idle-time",
	"-avatar-storage",
	"-s3-user", "-s3-password", "-s3-bucket", "-s3-region", "-s3-endpoint",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       HTTP bind address (e.g., ":3000")
//	-g string       gRPC bind address (e.g., ":50051")
//	-e string       environment name
//	-d string       PostgreSQL DSN
//	-s string       token signing secret
//	-t duration     session token validity (e.g., "72h")
//	-k int          bcrypt cost
//	-l string       log level
//	-db-max-open-conns, -db-max-idle-conns, -db-max-idle-time   pool tuning
//	-avatar-storage postgres|s3
//	-s3-user, -s3-password, -s3-bucket, -s3-region, -s3-endpoint
//
// Arguments are filtered with flagx.FilterArgs first, so flags owned by
// other components (e.g. -c) do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment [development|production]")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "session token validity")
	fs.IntVar(&config.PasswordHashCost, "k", config.PasswordHashCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.IntVar(&config.DBMaxOpenConns, "db-max-open-conns", config.DBMaxOpenConns, "PostgreSQL max open connections")
	fs.IntVar(&config.DBMaxIdleConns, "db-max-idle-conns", config.DBMaxIdleConns, "PostgreSQL max idle connections")
	fs.DurationVar(&config.DBMaxIdleTime, "db-max-idle-time", config.DBMaxIdleTime, "PostgreSQL max connection idle time")

	fs.StringVar(&config.AvatarStorage, "avatar-storage", config.AvatarStorage, "avatar storage [postgres|s3]")
	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
