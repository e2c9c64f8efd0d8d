package controller

import (
	"github.com/nimburion/hrportal/pkg/server/router"
)

// ResourceController serves the list and detail endpoints of one resource.
type ResourceController struct {
	resource Resource
	options  ListingOptions
}

// NewResourceController creates a controller for resource.
func NewResourceController(resource Resource, options ListingOptions) *ResourceController {
	return &ResourceController{resource: resource, options: options}
}

// Register mounts GET /{name} and GET /{name}/:id on r.
func (rc *ResourceController) Register(r router.Router) {
	name := rc.resource.Descriptor().Name
	r.GET("/"+name, rc.List)
	r.GET("/"+name+"/:id", rc.Get)
}

// List answers one page of the resource for the request's query string.
func (rc *ResourceController) List(c router.Context) error {
	opts, err := BindQueryOptions(c.Request().URL.Query(), rc.resource.Descriptor().Filterable, rc.options)
	if err != nil {
		return Error(c, err)
	}
	page, err := rc.resource.List(c.Request().Context(), opts)
	if err != nil {
		return Error(c, err)
	}
	return Paginated(c, page.Items, PaginationMeta{
		Page:         opts.Pagination.Page,
		PageSize:     opts.Pagination.PageSize,
		TotalMatched: page.TotalMatched,
		TotalPages:   page.TotalPages,
	})
}

// Get answers the record named by the :id path parameter.
func (rc *ResourceController) Get(c router.Context) error {
	item, err := rc.resource.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Error(c, err)
	}
	return Success(c, item)
}

// ResourcesHandler lists every resource with its field capabilities.
func ResourcesHandler(resources []Resource) router.HandlerFunc {
	descriptors := make([]Descriptor, len(resources))
	for i, res := range resources {
		descriptors[i] = res.Descriptor()
	}
	return func(c router.Context) error {
		return Success(c, descriptors)
	}
}
