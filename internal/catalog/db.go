package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"facr-builder/internal/model"
)

// MariaDBLoader reads the service catalog from a MariaDB instance. Schema:
//
//	cfg_service  (service_name, lob, bidirectional)
//	cfg_endpoint (service_name, direction 'incoming'|'outgoing',
//	              hostname, protocol_port, position)
//
// Endpoint order within a direction follows the position column.
type MariaDBLoader struct {
	db *sql.DB
}

func NewMariaDBLoader(dsn string) (*MariaDBLoader, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &MariaDBLoader{db: db}, nil
}

func (l *MariaDBLoader) Close() {
	l.db.Close()
}

func (l *MariaDBLoader) Load() (*Catalog, error) {
	defs, err := l.loadServices()
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	if err := l.loadEndpoints(defs); err != nil {
		return nil, fmt.Errorf("failed to load endpoints: %w", err)
	}

	c := newCatalog()
	for name, svc := range defs {
		c.add(name, *svc)
	}
	return c, nil
}

func (l *MariaDBLoader) loadServices() (map[string]*model.ServiceDefinition, error) {
	rows, err := l.db.Query("SELECT service_name, lob, bidirectional FROM cfg_service")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make(map[string]*model.ServiceDefinition)
	for rows.Next() {
		var name string
		var lob sql.NullString
		var bidirectional bool
		if err := rows.Scan(&name, &lob, &bidirectional); err != nil {
			return nil, err
		}
		defs[name] = &model.ServiceDefinition{
			Bidirectional: bidirectional,
			LOB:           lob.String,
		}
	}
	return defs, rows.Err()
}

func (l *MariaDBLoader) loadEndpoints(defs map[string]*model.ServiceDefinition) error {
	rows, err := l.db.Query("SELECT service_name, direction, hostname, protocol_port FROM cfg_endpoint ORDER BY service_name, direction, position ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var serviceName, direction string
		var ep model.Endpoint
		if err := rows.Scan(&serviceName, &direction, &ep.Name, &ep.ProtocolPort); err != nil {
			return err
		}

		svc, ok := defs[serviceName]
		if !ok {
			// Orphaned endpoint row; skip rather than invent a service.
			continue
		}
		switch direction {
		case "incoming":
			svc.Incoming = append(svc.Incoming, ep)
		case "outgoing":
			svc.Outgoing = append(svc.Outgoing, ep)
		default:
			return fmt.Errorf("endpoint for service '%s' has unknown direction '%s'", serviceName, direction)
		}
	}
	return rows.Err()
}
