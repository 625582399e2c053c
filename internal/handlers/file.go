package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/workbin-dev/workbin/internal/store"
	"github.com/workbin-dev/workbin/internal/utils"
)

type FileResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// UploadFile stores one multipart file inside the project directory under
// its original base name. Same-named uploads overwrite; last write wins.
func UploadFile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := store.GetProject(userID, ctx.Param("project_id"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	fileHeader, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A file field is required"})
		return
	}

	src, err := fileHeader.Open()

	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	dest, err := store.SaveUpload(project, filepath.Base(fileHeader.Filename), src)

	if err != nil {
		log.Printf("Failed to save upload for project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload"})
		return
	}

	BroadcastRefresh(ctx.Param("project_id"))

	ctx.JSON(http.StatusCreated, FileResponse{
		Name: filepath.Base(dest),
		Size: fileHeader.Size,
	})
}

func ListFiles(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := store.GetProject(userID, ctx.Param("project_id"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	files, err := store.ListFiles(project)

	if err != nil {
		log.Printf("Failed to list files for project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}

	ctx.JSON(http.StatusOK, files)
}

func DownloadFile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := store.GetProject(userID, ctx.Param("project_id"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	entry, err := store.GetFile(project, ctx.Param("name"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		} else {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		}
		return
	}

	ctx.FileAttachment(entry.Path, entry.Name)
}

func DeleteFile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := store.GetProject(userID, ctx.Param("project_id"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	if err := store.DeleteFile(project, ctx.Param("name")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		log.Printf("Failed to delete file for project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	BroadcastRefresh(ctx.Param("project_id"))

	ctx.Status(http.StatusNoContent)
}

// SharedUpload stores a file in the shared uploads area outside any
// project; the stored name carries a random prefix so uploads never
// collide.
func SharedUpload(ctx *gin.Context) {
	if _, err := utils.GetCurrentUserID(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	fileHeader, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A file field is required"})
		return
	}

	src, err := fileHeader.Open()

	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	dest, err := store.SaveSharedUpload(filepath.Base(fileHeader.Filename), src)

	if err != nil {
		log.Printf("Failed to save shared upload: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload"})
		return
	}

	ctx.JSON(http.StatusCreated, FileResponse{
		Name: filepath.Base(dest),
		Size: fileHeader.Size,
	})
}
