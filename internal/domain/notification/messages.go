package notification

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
)

var kindLabels = map[string]string{
	"leave":          "Leave request",
	"regularization": "Attendance regularization",
	"wfh":            "Work from home request",
}

func kindLabel(kind string) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return "Request"
}

// ForSubmission tells an approver that a request is waiting on them.
func ForSubmission(kind string, subj approval.Subject, approverID int64) CreateNotificationRequest {
	sender := subj.EmployeeID
	return CreateNotificationRequest{
		RecipientID: approverID,
		SenderID:    &sender,
		Type:        TypeRequestSubmitted,
		Level:       LevelInfo,
		Title:       kindLabel(kind) + " awaiting your approval",
		Message:     fmt.Sprintf("%s #%d needs a decision.", kindLabel(kind), subj.ID),
		Data:        requestData(kind, subj.ID),
	}
}

// ForDecision tells the requester what happened to their request.
func ForDecision(kind string, subj approval.Subject, t approval.Transition) CreateNotificationRequest {
	approver := t.ApproverID
	req := CreateNotificationRequest{
		RecipientID: subj.EmployeeID,
		SenderID:    &approver,
		Data:        requestData(kind, subj.ID),
	}
	label := kindLabel(kind)

	switch {
	case t.Approved():
		req.Type, req.Level = TypeRequestApproved, LevelSuccess
		req.Title = label + " approved"
		req.Message = fmt.Sprintf("Your %s #%d was approved.", strings.ToLower(label), subj.ID)
	case t.Rejected():
		req.Type, req.Level = TypeRequestRejected, LevelError
		req.Title = label + " rejected"
		req.Message = fmt.Sprintf("Your %s #%d was rejected.", strings.ToLower(label), subj.ID)
	default:
		req.Type, req.Level = TypeRequestAdvanced, LevelInfo
		req.Title = label + " approved by manager"
		req.Message = fmt.Sprintf("Your %s #%d is now awaiting HR approval.", strings.ToLower(label), subj.ID)
	}

	if t.Comment != nil && *t.Comment != "" {
		req.Data["comment"] = *t.Comment
	}
	return req
}

func ForAbsence(employeeID int64, date string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypeAbsenceMarked,
		Level:       LevelWarning,
		Title:       "Marked absent",
		Message:     fmt.Sprintf("No check-in was recorded on %s. Submit a regularization if this is wrong.", date),
		Data:        map[string]interface{}{"date": date},
	}
}

func ForPayslip(employeeID int64, year, month int, runID string) CreateNotificationRequest {
	return CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        TypePayrollFinalized,
		Level:       LevelSuccess,
		Title:       "Payslip available",
		Message:     fmt.Sprintf("Your payslip for %04d-%02d has been finalized.", year, month),
		Data:        map[string]interface{}{"year": year, "month": month, "run_id": runID},
	}
}

func requestData(kind string, id int64) map[string]interface{} {
	return map[string]interface{}{"request_kind": kind, "request_id": id}
}
