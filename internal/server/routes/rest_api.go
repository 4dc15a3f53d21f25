package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/usecase"
)

func RegisterRestAPI(injector *do.Injector, e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	g.GET("/deployments", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.ListDeploymentUsecase](injector)
		deployments, err := usecase.Execute(c.Request().Context(), c.QueryParam("service"))
		if err != nil {
			return c.NoContent(http.StatusInternalServerError)
		}

		type response struct {
			Deployments []*entity.Deployment `json:"deployments"`
		}

		result := &response{Deployments: make([]*entity.Deployment, len(deployments))}
		copy(result.Deployments, deployments)

		return c.JSON(http.StatusOK, result)
	})
	g.GET("/deployments/:id", func(c echo.Context) error {
		id, err := entity.ParseID(c.Param("id"))
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		usecase := do.MustInvoke[usecase.GetDeploymentUsecase](injector)
		deployment, err := usecase.Execute(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return c.NoContent(http.StatusNotFound)
			}
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, deployment)
	})
}
