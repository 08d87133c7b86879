package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// route is an API endpoint together with the metadata its OpenAPI
// operation is generated from. Paths are relative to /api.
type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
	doc     operationDoc
}

type operationDoc struct {
	id      string
	tag     string
	summary string
	// request names the component schema of the JSON body, if any.
	request string
	status  int
	// response names the component schema returned on success; list wraps
	// it in an array.
	response string
	list     bool
	message  bool
	errors   []int
}

func (s *Server) apiRoutes() []route {
	return []route{
		{http.MethodGet, "/tasks", s.handleListTasks, operationDoc{
			id: "listTasks", tag: "Tasks", summary: "Get all tasks",
			status: http.StatusOK, response: "Task", list: true,
			errors: []int{http.StatusInternalServerError},
		}},
		{http.MethodPost, "/tasks", s.handleCreateTask, operationDoc{
			id: "createTask", tag: "Tasks", summary: "Create a new task",
			request: "CreateTaskDTO", status: http.StatusCreated, response: "Task",
			errors: []int{http.StatusBadRequest, http.StatusInternalServerError},
		}},
		{http.MethodGet, "/tasks/:id", s.handleGetTask, operationDoc{
			id: "getTask", tag: "Tasks", summary: "Get task by id",
			status: http.StatusOK, response: "Task",
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
		}},
		{http.MethodPut, "/tasks/:id", s.handleUpdateTask, operationDoc{
			id: "updateTask", tag: "Tasks", summary: "Update task by id",
			request: "UpdateTaskDTO", status: http.StatusOK, response: "Task",
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
		}},
		{http.MethodDelete, "/tasks/:id", s.handleDeleteTask, operationDoc{
			id: "deleteTask", tag: "Tasks", summary: "Delete task by id",
			status: http.StatusOK, message: true,
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
		}},
		{http.MethodGet, "/categories", s.handleListCategories, operationDoc{
			id: "listCategories", tag: "Categories", summary: "Get all categories",
			status: http.StatusOK, response: "Category", list: true,
			errors: []int{http.StatusInternalServerError},
		}},
		{http.MethodPost, "/categories", s.handleCreateCategory, operationDoc{
			id: "createCategory", tag: "Categories", summary: "Create a new category",
			request: "CreateCategoryDTO", status: http.StatusCreated, response: "Category",
			errors: []int{http.StatusBadRequest, http.StatusInternalServerError},
		}},
		{http.MethodGet, "/categories/:id", s.handleGetCategory, operationDoc{
			id: "getCategory", tag: "Categories", summary: "Get category by id",
			status: http.StatusOK, response: "Category",
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
		}},
		{http.MethodPut, "/categories/:id", s.handleUpdateCategory, operationDoc{
			id: "updateCategory", tag: "Categories", summary: "Update category by id",
			request: "UpdateCategoryDTO", status: http.StatusOK, response: "Category",
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
		}},
		{http.MethodDelete, "/categories/:id", s.handleDeleteCategory, operationDoc{
			id: "deleteCategory", tag: "Categories", summary: "Delete category by id",
			status: http.StatusOK, message: true,
			errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
		}},
	}
}
