package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/app/services"
	"github.com/yigit/coursedesk/internal/middleware"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
)

// Pagination response headers
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderTotalPages = "X-Total-Pages"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// parseCourseID reads the :id path parameter, writing a 400 response when it is not a positive integer
func parseCourseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
		errorDetail = errorDetail.WithField("id").WithDetails("Course ID must be a positive integer")
		middleware.AbortWithError(ctx, http.StatusBadRequest, errorDetail)
		return 0, false
	}
	return id, true
}

// ListCourses lists courses with optional filters
// @Summary List courses
// @Description Returns all courses ordered by ID. Filters combine with AND; empty filter values are ignored.
// @Tags courses
// @Produce json
// @Param id query int false "Only the course with this ID"
// @Param name query string false "Only courses with exactly this name"
// @Param page query int false "Page number (1-based); enables pagination"
// @Param size query int false "Page size (max 100); enables pagination"
// @Success 200 {array} dto.CourseResponse "Courses retrieved successfully"
// @Header 200 {integer} X-Total-Count "Total matching courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/ [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var query dto.CourseListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	var filter repositories.CourseFilter
	if raw := strings.TrimSpace(query.ID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id filter")
			errorDetail = errorDetail.WithField("id").WithDetails("id must be an integer")
			middleware.AbortWithError(ctx, http.StatusBadRequest, errorDetail)
			return
		}
		filter.ID = &id
	}
	if query.Name != "" {
		name := query.Name
		filter.Name = &name
	}

	page, size, paged := helpers.ParsePaginationParams(ctx)
	if paged {
		filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, size)
	}

	courses, total, err := c.courseService.ListCourses(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if paged {
		info := helpers.NewPaginationInfo(total, page, size)
		ctx.Header(HeaderTotalCount, strconv.FormatInt(info.TotalItems, 10))
		ctx.Header(HeaderTotalPages, strconv.Itoa(info.TotalPages))
	} else {
		ctx.Header(HeaderTotalCount, strconv.FormatInt(total, 10))
	}

	ctx.JSON(http.StatusOK, dto.FromCourses(courses))
}

// GetCourseByID retrieves a course by ID
// @Summary Get course details
// @Description Retrieves a single course by its ID
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.CourseResponse "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/ [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromCourse(course))
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Description Creates a course; the server assigns its ID
// @Tags courses
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.CourseResponse "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/ [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	course, err := c.courseService.CreateCourse(ctx, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.FromCourse(course))
}

// UpdateCourse replaces an existing course
// @Summary Update a course
// @Description Replaces the name of an existing course
// @Tags courses
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.UpdateCourseRequest true "Updated course information"
// @Success 200 {object} dto.CourseResponse "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/ [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, id, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromCourse(course))
}

// PatchCourse partially updates a course
// @Summary Partially update a course
// @Description Applies the provided fields; an empty body returns the course unchanged
// @Tags courses
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.PatchCourseRequest false "Fields to change"
// @Success 200 {object} dto.CourseResponse "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/ [patch]
func (c *CourseController) PatchCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	var req dto.PatchCourseRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBind(&req); err != nil {
			middleware.AbortWithError(ctx, http.StatusBadRequest, dto.HandleValidationError(err))
			return
		}
	}

	course, err := c.courseService.PatchCourse(ctx, id, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromCourse(course))
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Description Permanently removes a course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 204 "Course deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/ [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
