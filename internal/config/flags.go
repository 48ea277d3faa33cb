package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags holds the values of the command-line flags bound by [RegisterFlags].
// Values stay zero until the owning FlagSet is parsed.
type Flags struct {
	jsonConfigPath string
	logLevel       string
	accountID      string
	password       string
	environment    string
	baseURL        string
	requestTimeout time.Duration
	pageSize       int
	driver         string
	dsn            string
	clientIDs      []string
	projectIDs     []string
	collections    []string
	concurrency    int
	repeat         int
	statusAddress  NetAddress
}

// RegisterFlags binds all configuration flags to fs.
//
// Flags:
//
//	-c/--config        json file path with configs
//	--log-level        zerolog level
//	--accountid        account login
//	--password         account password
//	--trivapwd         alias of --password
//	--environment      API gateway environment
//	--base-url         API gateway URL override
//	--request-timeout  per request timeout (e.g., "30s")
//	--page-size        items requested per page
//	--db-driver        sqlite3 or pgx
//	-d/--dsn           database DSN
//	--clientids        comma separated client ids
//	--projectids       comma separated project ids
//	--collections      comma separated child collections
//	--concurrency      clients synced in parallel
//	--repeat           repeat every N minutes (minimum 15)
//	--status-address   status endpoint address in format [host]:[port]
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.accountID, "accountid", "", "Account login")
	fs.StringVar(&f.password, "password", "", "Account password")
	fs.StringVar(&f.password, "trivapwd", "", "Account password (alias of --password)")
	fs.StringVar(&f.environment, "environment", "", "API gateway environment")
	fs.StringVar(&f.baseURL, "base-url", "", "API gateway URL override")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&f.pageSize, "page-size", 0, "Items requested per page for every collection (0 keeps per collection sizes)")
	fs.StringVar(&f.driver, "db-driver", "", "Database driver (sqlite3, pgx)")
	fs.StringVarP(&f.dsn, "dsn", "d", "", "Database DSN")
	fs.StringSliceVar(&f.clientIDs, "clientids", nil, "Client ids to sync")
	fs.StringSliceVar(&f.projectIDs, "projectids", nil, "Project ids to sync")
	fs.StringSliceVar(&f.collections, "collections", nil, "Child collections to sync")
	fs.IntVar(&f.concurrency, "concurrency", 0, "Clients synced in parallel")
	fs.IntVar(&f.repeat, "repeat", 0, "Repeat the update every N minutes (minimum 15)")
	fs.Var(&f.statusAddress, "status-address", "Status endpoint host:port")

	return f
}

func (f *Flags) config() *StructuredConfig {
	return &StructuredConfig{
		App:     App{LogLevel: f.logLevel},
		Account: Account{UserID: f.accountID, Password: f.password},
		Adapter: Adapter{
			Environment:    f.environment,
			BaseURL:        f.baseURL,
			RequestTimeout: f.requestTimeout,
			PageSize:       f.pageSize,
		},
		Storage: Storage{DB: DB{Driver: f.driver, DSN: f.dsn}},
		Sync: Sync{
			ClientIDs:   f.clientIDs,
			ProjectIDs:  f.projectIDs,
			Collections: f.collections,
			Concurrency: f.concurrency,
		},
		Workers:      Workers{RepeatMinutes: f.repeat},
		Server:       Server{Address: f.statusAddress.String()},
		JSONFilePath: f.jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when neither Host nor Port are set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host listens on all interfaces; otherwise the host must be
// "localhost" or a valid IP address.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "address"
}
