package requests

import (
	"fmt"
	"net/http"
	"time"

	"helix/api/contexts"
	"helix/api/models/dtos"
	"helix/api/models/dtos/errors"
	esRepo "helix/api/repositories/elasticsearch"

	"github.com/labstack/echo"
)

// GetRequestsOverview aggregates the dispatch audit log by
// input kind and outcome. Only available when an
// elasticsearch url is configured.
func GetRequestsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetRequestsOverview hit!\n", time.Now())

	cc := c.(*contexts.ChatContext)
	if cc.Es7Client == nil {
		return c.JSON(http.StatusNotFound, errors.CreateSimpleNotFound("Dispatch audit log is not enabled on this deployment"))
	}

	kinds, outcomes, err := esRepo.GetDispatchLogsOverview(cc.Es7Client, cc.Config)
	if err != nil {
		fmt.Printf("[%s] - Error retrieving dispatch logs overview : %v..\n", time.Now(), err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError("Failed to aggregate the dispatch audit log"))
	}

	return c.JSON(http.StatusOK, dtos.RequestsOverviewDto{
		Status:   http.StatusOK,
		Message:  "Success",
		Kinds:    kinds,
		Outcomes: outcomes,
	})
}
