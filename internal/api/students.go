package api

import (
	"net/http"

	"github.com/tcp_snm/pulse/internal/service/student_service"
)

const keyStudentID = "student_id"

func (a *Api) HandlerListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := a.StudentServiceConfig.ListStudents(r.Context())
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, students)
}

func (a *Api) HandlerGetStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuidFromPath(r, keyStudentID)
	if err != nil {
		handlerError(err, w)
		return
	}

	student, err := a.StudentServiceConfig.GetStudentByID(r.Context(), studentID)
	if err != nil {
		handlerError(err, w)
		return
	}

	marshalAndRespond(w, http.StatusOK, student)
}

func (a *Api) HandlerCreateStudent(w http.ResponseWriter, r *http.Request) {
	logger, err := adminLogger(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request student_service.StudentRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	student, err := a.StudentServiceConfig.CreateStudent(r.Context(), request)
	if err != nil {
		handlerError(err, w)
		return
	}

	logger.Infof("student %v created with handle %v", student.ID, student.Handle)
	marshalAndRespond(w, http.StatusCreated, student)
}

func (a *Api) HandlerUpdateStudent(w http.ResponseWriter, r *http.Request) {
	logger, err := adminLogger(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	studentID, err := uuidFromPath(r, keyStudentID)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request student_service.StudentRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	student, err := a.StudentServiceConfig.UpdateStudent(r.Context(), studentID, request)
	if err != nil {
		handlerError(err, w)
		return
	}

	logger.Infof("student %v updated", studentID)
	marshalAndRespond(w, http.StatusOK, student)
}

func (a *Api) HandlerDeleteStudent(w http.ResponseWriter, r *http.Request) {
	logger, err := adminLogger(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	studentID, err := uuidFromPath(r, keyStudentID)
	if err != nil {
		handlerError(err, w)
		return
	}

	if err = a.StudentServiceConfig.DeleteStudent(r.Context(), studentID); err != nil {
		handlerError(err, w)
		return
	}

	logger.Infof("student %v deleted through api", studentID)
	respondWithJson(w, http.StatusOK, []byte(`{"message": "student deleted successfully"}`))
}
