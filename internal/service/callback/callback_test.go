package callback

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	repomocks "gitee.com/flycash/communication-platform/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestParseVendorA(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		form    url.Values
		want    domain.DeliveryReport
		wantErr error
	}{
		{
			name: "送达",
			form: url.Values{
				"externalId":  {"3866"},
				"deliveredTS": {"1700000000123"},
				"status":      {"SUCCESS"},
				"phoneNo":     {"919876543210"},
				"noOfFrags":   {"2"},
			},
			want: domain.DeliveryReport{
				ExternalID: "3866", DeliveredTimestamp: 1700000000123, Status: domain.DeliveryStatusSuccess,
				PhoneNumber: "919876543210", FragmentCount: 2, VendorName: domain.VendorA,
			},
		},
		{
			name: "失败带原因",
			form: url.Values{"externalId": {"3867"}, "status": {"fail"}, "cause": {"ABSENT_SUBSCRIBER"}, "errCode": {"27"}},
			want: domain.DeliveryReport{
				ExternalID: "3867", Status: domain.DeliveryStatusFail, Cause: "ABSENT_SUBSCRIBER", ErrorCode: "27", VendorName: domain.VendorA,
			},
		},
		{
			name: "WhatsApp 已读",
			form: url.Values{"externalId": {"3868"}, "status": {"READ"}},
			want: domain.DeliveryReport{ExternalID: "3868", Status: domain.DeliveryStatusView, VendorName: domain.VendorA},
		},
		{
			name: "无法识别的状态",
			form: url.Values{"externalId": {"3869"}, "status": {"WHATEVER"}},
			want: domain.DeliveryReport{ExternalID: "3869", Status: domain.DeliveryStatusUnknown, VendorName: domain.VendorA},
		},
		{
			name:    "缺少 externalId",
			form:    url.Values{"status": {"SUCCESS"}},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "时间戳不合法",
			form:    url.Values{"externalId": {"1"}, "deliveredTS": {"yesterday"}},
			wantErr: errs.ErrInvalidParameter,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVendorA(tc.form)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseVendorB(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		body    string
		want    []domain.DeliveryReport
		wantErr error
	}{
		{
			name: "单个对象",
			body: `{"mid":"m-1","status":"DELIVERED","timestamp":1700000000123,"recipient":{"to":"919876543210"},"totalFragments":1}`,
			want: []domain.DeliveryReport{{
				ExternalID: "m-1", DeliveredTimestamp: 1700000000123, Status: domain.DeliveryStatusSuccess,
				PhoneNumber: "919876543210", FragmentCount: 1, VendorName: domain.VendorB,
			}},
		},
		{
			name: "数组",
			body: ` [{"mid":"m-1","status":"read"},{"mid":"m-2","status":"UNDELIVERED","error":{"code":"1001","reason":"blocked"}}]`,
			want: []domain.DeliveryReport{
				{ExternalID: "m-1", Status: domain.DeliveryStatusView, VendorName: domain.VendorB},
				{ExternalID: "m-2", Status: domain.DeliveryStatusFail, Cause: "blocked", ErrorCode: "1001", VendorName: domain.VendorB},
			},
		},
		{
			name:    "缺少 mid",
			body:    `{"status":"DELIVERED"}`,
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "不是 JSON",
			body:    `status=DELIVERED`,
			wantErr: errs.ErrInvalidParameter,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVendorB([]byte(tc.body))
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestService_Reconcile(t *testing.T) {
	t.Parallel()
	report := domain.DeliveryReport{ExternalID: "m-1", Status: domain.DeliveryStatusSuccess, VendorName: domain.VendorB}
	testCases := []struct {
		name    string
		mock    func(acks *repomocks.MockAcknowledgementRepository)
		times   int
		wantErr error
	}{
		{
			name: "重复回执只处理一次",
			mock: func(acks *repomocks.MockAcknowledgementRepository) {
				acks.EXPECT().UpdateDelivery(gomock.Any(), report).Return(nil).Times(1)
			},
			times: 3,
		},
		{
			name: "找不到发送记录",
			mock: func(acks *repomocks.MockAcknowledgementRepository) {
				acks.EXPECT().UpdateDelivery(gomock.Any(), report).Return(errs.ErrAcknowledgementNotFound).Times(1)
			},
			times: 2,
		},
		{
			name: "数据库错误不记入去重",
			mock: func(acks *repomocks.MockAcknowledgementRepository) {
				acks.EXPECT().UpdateDelivery(gomock.Any(), report).Return(errors.New("db down")).Times(2)
			},
			times:   2,
			wantErr: errors.New("db down"),
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			acks := repomocks.NewMockAcknowledgementRepository(ctrl)
			tc.mock(acks)
			svc := NewService(acks, 0)
			for i := 0; i < tc.times; i++ {
				err := svc.Reconcile(context.Background(), report)
				assert.Equal(t, tc.wantErr, err)
			}
		})
	}
}

func TestService_ReconcileAll(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	acks := repomocks.NewMockAcknowledgementRepository(ctrl)
	ok := domain.DeliveryReport{ExternalID: "m-1", Status: domain.DeliveryStatusSuccess, VendorName: domain.VendorB}
	bad := domain.DeliveryReport{ExternalID: "m-2", Status: domain.DeliveryStatusFail, VendorName: domain.VendorB}
	// 同一条消息状态变化不算重复
	read := ok
	read.Status = domain.DeliveryStatusView
	acks.EXPECT().UpdateDelivery(gomock.Any(), ok).Return(nil)
	acks.EXPECT().UpdateDelivery(gomock.Any(), bad).Return(errors.New("db down"))
	acks.EXPECT().UpdateDelivery(gomock.Any(), read).Return(nil)

	err := NewService(acks, 0).ReconcileAll(context.Background(), []domain.DeliveryReport{ok, bad, read})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 条回执处理失败")
}
