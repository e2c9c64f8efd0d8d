package hr

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/nimburion/hrportal/pkg/controller"
	lq "github.com/nimburion/hrportal/pkg/listquery"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/repository"
	"github.com/nimburion/hrportal/pkg/server/router"
)

// Migrations holds the SQL migrations that create the HR tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the migration files.
const MigrationsDir = "migrations"

// Options selects where the catalog reads its collections from.
type Options struct {
	// Dataset backs every resource with an in-memory collection. Ignored when DB is set.
	Dataset *Dataset
	// DB backs every resource with its table.
	DB repository.SQLExecutor
	// Snapshots, when set, caches each loaded collection for SnapshotTTL.
	Snapshots   repository.SnapshotStore
	SnapshotTTL time.Duration

	Metrics *metrics.ListQueryMetrics
	Logger  logger.Logger
	// Locale drives string collation when sorting. The zero value means English.
	Locale language.Tag
}

// Catalog holds every HR resource in a fixed order.
type Catalog struct {
	resources []controller.Resource
	byName    map[string]controller.Resource
}

// NewCatalog builds the seven HR resources.
func NewCatalog(opts Options) (*Catalog, error) {
	if opts.Dataset == nil && opts.DB == nil {
		return nil, errors.New("hr catalog: either a dataset or a database is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	ds := opts.Dataset
	if ds == nil {
		ds = &Dataset{}
	}
	var schemaOpts []lq.Option
	if opts.Locale != language.Und {
		schemaOpts = append(schemaOpts, lq.WithLocale(opts.Locale))
	}

	c := &Catalog{byName: make(map[string]controller.Resource)}
	errs := []error{
		add(c, opts, ResourceEmployees, EmployeeSchema(schemaOpts...), employeesTable, ds.Employees,
			func(e Employee) string { return e.ID }),
		add(c, opts, ResourceBenefitPlans, BenefitPlanSchema(schemaOpts...), benefitPlansTable, ds.BenefitPlans,
			func(b BenefitPlan) string { return b.ID }),
		add(c, opts, ResourceCourses, CourseSchema(schemaOpts...), coursesTable, ds.Courses,
			func(crs Course) string { return crs.ID }),
		add(c, opts, ResourceGoals, GoalSchema(schemaOpts...), goalsTable, ds.Goals,
			func(g Goal) string { return g.ID }),
		add(c, opts, ResourceLeaveRequests, LeaveRequestSchema(schemaOpts...), leaveRequestsTable, ds.LeaveRequests,
			func(l LeaveRequest) string { return l.ID }),
		add(c, opts, ResourceDocuments, DocumentSchema(schemaOpts...), documentsTable, ds.Documents,
			func(d Document) string { return d.ID }),
		add(c, opts, ResourcePayStubs, PayStubSchema(schemaOpts...), payStubsTable, ds.PayStubs,
			func(p PayStub) string { return p.ID }),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

func add[T any](c *Catalog, opts Options, name string, schema *lq.Schema[T], t table[T], records []T, idOf func(T) string) error {
	var source repository.Source[T]
	if opts.DB != nil {
		sqlSource, err := t.source(opts.DB)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		source = sqlSource
	} else {
		source = repository.NewStaticSource(t.name, records)
	}
	if opts.Snapshots != nil {
		source = repository.NewCachedSource(source, opts.Snapshots, opts.SnapshotTTL, opts.Logger)
	}

	repo := repository.NewCollectionRepository(name, schema, source, idOf,
		repository.WithMetrics(opts.Metrics),
		repository.WithLogger(opts.Logger),
	)
	res := controller.NewResource[T](name, schema, repo)
	c.resources = append(c.resources, res)
	c.byName[name] = res
	return nil
}

// Resources returns the resources in catalog order.
func (c *Catalog) Resources() []controller.Resource {
	return append([]controller.Resource(nil), c.resources...)
}

// Names returns the resource names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.resources))
	for i, res := range c.resources {
		names[i] = res.Descriptor().Name
	}
	return names
}

// Lookup finds a resource by name.
func (c *Catalog) Lookup(name string) (controller.Resource, bool) {
	res, ok := c.byName[name]
	return res, ok
}

// Register mounts GET /resources plus the list and detail routes of every resource on r.
func (c *Catalog) Register(r router.Router, listing controller.ListingOptions) {
	r.GET("/resources", controller.ResourcesHandler(c.resources))
	for _, res := range c.resources {
		controller.NewResourceController(res, listing).Register(r)
	}
}
