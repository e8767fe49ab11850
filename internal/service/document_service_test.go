package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

func setupTestDocumentService() (DocumentService, StatusService, *repository.Repository) {
	repo := newMockRepository()
	status := NewStatusService(repo, zap.NewNop())
	svc := NewDocumentService(repo, status, zap.NewNop())
	return svc, status, repo
}

func seedDocumentStudent(t *testing.T, repo *repository.Repository) *model.Student {
	t.Helper()
	student := &model.Student{StudentNo: "TU-STD0001", UserID: "usr-stu"}
	if err := repo.Student.Create(context.Background(), student); err != nil {
		t.Fatalf("预置学生失败: %v", err)
	}
	return student
}

// ── 文档 ──

func TestCreateDocument_Success(t *testing.T) {
	svc, status, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	resp, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		OwnerKind: model.DocumentOwnerStudent,
		OwnerID:   student.StudentID,
		Type:      "waec",
		Title:     "WAEC Certificate",
		FilePath:  "uploads/waec-001.pdf",
		SizeBytes: 2048,
	}, "usr-caller")
	if err != nil {
		t.Fatalf("CreateDocument 应成功: %v", err)
	}
	if resp.Status != model.DocumentPending {
		t.Errorf("新文档应为待审, 实际 %s", resp.Status)
	}

	// 登记即写一条状态历史
	current, err := status.CurrentStatus(ctx, model.ContentKindDocument, resp.ID)
	if err != nil {
		t.Fatalf("查询状态历史失败: %v", err)
	}
	if current != model.DocumentPending {
		t.Errorf("状态历史不符, 期望 %s, 实际 %s", model.DocumentPending, current)
	}
}

func TestCreateDocument_OwnerIll(t *testing.T) {
	svc, _, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	_, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		OwnerKind: "vendor",
		OwnerID:   student.StudentID,
		Type:      "public",
		Title:     "Misc",
		FilePath:  "uploads/misc.pdf",
	}, "usr-caller")
	if !errors.Is(err, ErrDocumentOwnerIll) {
		t.Errorf("未知归属种类应返回 ErrDocumentOwnerIll, 实际 %v", err)
	}

	_, err = svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		OwnerKind: model.DocumentOwnerStaff,
		OwnerID:   "stf-missing",
		Type:      "public",
		Title:     "Misc",
		FilePath:  "uploads/misc.pdf",
	}, "usr-caller")
	if !errors.Is(err, ErrDocumentOwnerIll) {
		t.Errorf("归属档案不存在应返回 ErrDocumentOwnerIll, 实际 %v", err)
	}
}

func TestReviewDocument_Approve(t *testing.T) {
	svc, status, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	doc, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		OwnerKind: model.DocumentOwnerStudent,
		OwnerID:   student.StudentID,
		Type:      "transcript",
		Title:     "High School Transcript",
		FilePath:  "uploads/hs-transcript.pdf",
	}, "usr-caller")
	if err != nil {
		t.Fatalf("预置文档失败: %v", err)
	}

	reviewed, err := svc.ReviewDocument(ctx, doc.ID, &dto.ReviewDocumentRequest{
		Status: model.DocumentApproved,
		Note:   "材料齐全",
	}, "stf-001", "usr-reviewer")
	if err != nil {
		t.Fatalf("ReviewDocument 应成功: %v", err)
	}
	if reviewed.Status != model.DocumentApproved {
		t.Errorf("审核后状态不符, 实际 %s", reviewed.Status)
	}

	current, _ := status.CurrentStatus(ctx, model.ContentKindDocument, doc.ID)
	if current != model.DocumentApproved {
		t.Errorf("状态历史应推进到 approved, 实际 %s", current)
	}
}

func TestReviewDocument_Invalid(t *testing.T) {
	svc, _, _ := setupTestDocumentService()
	ctx := context.Background()

	_, err := svc.ReviewDocument(ctx, "doc-001", &dto.ReviewDocumentRequest{Status: "archived"}, "", "usr-reviewer")
	if !errors.Is(err, ErrDocumentStatusIll) {
		t.Errorf("未知状态应返回 ErrDocumentStatusIll, 实际 %v", err)
	}

	_, err = svc.ReviewDocument(ctx, "doc-missing", &dto.ReviewDocumentRequest{Status: model.DocumentRejected}, "", "usr-reviewer")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("文档不存在应返回 ErrDocumentNotFound, 实际 %v", err)
	}
}

func TestListDocuments(t *testing.T) {
	svc, _, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	for _, title := range []string{"WAEC Certificate", "Utility Bill"} {
		_, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
			OwnerKind: model.DocumentOwnerStudent,
			OwnerID:   student.StudentID,
			Type:      "public",
			Title:     title,
			FilePath:  "uploads/" + title + ".pdf",
		}, "usr-caller")
		if err != nil {
			t.Fatalf("预置文档失败: %v", err)
		}
	}

	owned, err := svc.ListOwnerDocuments(ctx, model.DocumentOwnerStudent, student.StudentID)
	if err != nil {
		t.Fatalf("ListOwnerDocuments 应成功: %v", err)
	}
	if len(owned) != 2 {
		t.Errorf("归属文档数不符, 期望 2, 实际 %d", len(owned))
	}

	paged, err := svc.ListByStatus(ctx, model.DocumentPending, &dto.PaginationRequest{Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("ListByStatus 应成功: %v", err)
	}
	if paged.Total != 2 || len(paged.Items) != 1 {
		t.Errorf("分页不符, total=%d items=%d", paged.Total, len(paged.Items))
	}
}

func TestDeleteDocument(t *testing.T) {
	svc, _, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	doc, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		OwnerKind: model.DocumentOwnerStudent,
		OwnerID:   student.StudentID,
		Type:      "bill",
		Title:     "Tuition Bill",
		FilePath:  "uploads/bill.pdf",
	}, "usr-caller")
	if err != nil {
		t.Fatalf("预置文档失败: %v", err)
	}

	if err := svc.DeleteDocument(ctx, doc.ID, "usr-caller"); err != nil {
		t.Fatalf("DeleteDocument 应成功: %v", err)
	}
	if _, err := svc.GetDocument(ctx, doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("删除后查询应返回 ErrDocumentNotFound, 实际 %v", err)
	}
	if err := svc.DeleteDocument(ctx, doc.ID, "usr-caller"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("重复删除应返回 ErrDocumentNotFound, 实际 %v", err)
	}
}

// ── 成绩单申请 ──

func TestCreateTranscriptRequest_Success(t *testing.T) {
	svc, status, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	resp, err := svc.CreateTranscriptRequest(ctx, &dto.CreateTranscriptRequestRequest{
		StudentID:       student.StudentID,
		DeliveryMethod:  "email",
		DestinationName: "University of Liberia",
		Purpose:         "graduate admission",
	}, "usr-caller")
	if err != nil {
		t.Fatalf("CreateTranscriptRequest 应成功: %v", err)
	}
	if resp.Status != model.TranscriptPending {
		t.Errorf("新申请应为待处理, 实际 %s", resp.Status)
	}
	if resp.StudentNo != student.StudentNo {
		t.Errorf("响应应带学号, 实际 %q", resp.StudentNo)
	}

	current, _ := status.CurrentStatus(ctx, model.ContentKindTranscript, resp.ID)
	if current != model.TranscriptPending {
		t.Errorf("状态历史不符, 实际 %s", current)
	}
}

func TestCreateTranscriptRequest_StudentMissing(t *testing.T) {
	svc, _, _ := setupTestDocumentService()
	ctx := context.Background()

	_, err := svc.CreateTranscriptRequest(ctx, &dto.CreateTranscriptRequestRequest{
		StudentID:      "stu-missing",
		DeliveryMethod: "pickup",
	}, "usr-caller")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("学生不存在应返回 ErrStudentNotFound, 实际 %v", err)
	}
}

func TestSetTranscriptStatus_Pipeline(t *testing.T) {
	svc, _, repo := setupTestDocumentService()
	ctx := context.Background()
	student := seedDocumentStudent(t, repo)

	resp, err := svc.CreateTranscriptRequest(ctx, &dto.CreateTranscriptRequestRequest{
		StudentID:      student.StudentID,
		DeliveryMethod: "pickup",
	}, "usr-caller")
	if err != nil {
		t.Fatalf("预置申请失败: %v", err)
	}

	processing, err := svc.SetTranscriptStatus(ctx, resp.ID,
		&dto.SetTranscriptStatusRequest{Status: model.TranscriptProcessing}, "stf-001", "usr-caller")
	if err != nil {
		t.Fatalf("推进到 processing 应成功: %v", err)
	}
	if processing.ProcessedAt != "" {
		t.Errorf("processing 不应盖处理时间, 实际 %q", processing.ProcessedAt)
	}

	completed, err := svc.SetTranscriptStatus(ctx, resp.ID,
		&dto.SetTranscriptStatusRequest{Status: model.TranscriptCompleted}, "stf-001", "usr-caller")
	if err != nil {
		t.Fatalf("推进到 completed 应成功: %v", err)
	}
	if completed.ProcessedAt == "" {
		t.Error("completed 应盖处理时间")
	}

	list, err := svc.ListStudentTranscriptRequests(ctx, student.StudentID)
	if err != nil {
		t.Fatalf("ListStudentTranscriptRequests 应成功: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.TranscriptCompleted {
		t.Errorf("申请列表不符: %+v", list)
	}
}

func TestSetTranscriptStatus_Invalid(t *testing.T) {
	svc, _, _ := setupTestDocumentService()
	ctx := context.Background()

	_, err := svc.SetTranscriptStatus(ctx, "tr-001",
		&dto.SetTranscriptStatusRequest{Status: "mailed"}, "", "usr-caller")
	if !errors.Is(err, ErrTranscriptStatus) {
		t.Errorf("未知状态应返回 ErrTranscriptStatus, 实际 %v", err)
	}

	_, err = svc.SetTranscriptStatus(ctx, "tr-missing",
		&dto.SetTranscriptStatusRequest{Status: model.TranscriptOnHold}, "", "usr-caller")
	if !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("申请不存在应返回 ErrTranscriptNotFound, 实际 %v", err)
	}
}
