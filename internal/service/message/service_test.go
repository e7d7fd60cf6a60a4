package message

import (
	"context"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"shoplink_message_server/internal/dao/mysql/repository"
	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/internal/dto/respond"
	"shoplink_message_server/internal/model"
	"shoplink_message_server/internal/service/chat"
	"shoplink_message_server/pkg/constants"
	"shoplink_message_server/pkg/enum/mediakind"
	"shoplink_message_server/pkg/errorx"
	"shoplink_message_server/pkg/util/snowflake"
)

// ==================== 测试替身 ====================

type pushedEvent struct {
	UserId uint
	Event  chat.Event
}

// stubPusher 记录所有推送调用
type stubPusher struct {
	mu     sync.Mutex
	pushed []pushedEvent
}

func (p *stubPusher) PushToUser(userId uint, event chat.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, pushedEvent{UserId: userId, Event: event})
}

func (p *stubPusher) Broadcast(event chat.Event) {}

func (p *stubPusher) eventsFor(userId uint, name string) []pushedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushedEvent
	for _, e := range p.pushed {
		if e.UserId == userId && e.Event.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// stubNotifier 记录通知请求
type stubNotifier struct {
	mu       sync.Mutex
	requests []request.CreateNotificationRequest
}

func (n *stubNotifier) Notify(req request.CreateNotificationRequest) (*respond.NotificationRespond, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, req)
	return &respond.NotificationRespond{}, nil
}

// stubMedia 固定返回上传结果并记录删除调用
type stubMedia struct {
	mu      sync.Mutex
	url     string
	kind    mediakind.Kind
	removed []string
}

func (m *stubMedia) Ingest(ctx context.Context, file *multipart.FileHeader) (string, mediakind.Kind, error) {
	return m.url, m.kind, nil
}

func (m *stubMedia) Remove(url string, kind mediakind.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, url)
}

// ==================== 测试环境 ====================

type testEnv struct {
	svc      *messageService
	repos    *repository.Repositories
	db       *gorm.DB
	pusher   *stubPusher
	notifier *stubNotifier
	media    *stubMedia
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	snowflake.Init(1)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.UserInfo{}, &model.Message{}, &model.Notification{}); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	repos := repository.NewRepositories(db)
	pusher := &stubPusher{}
	notifier := &stubNotifier{}
	media := &stubMedia{url: "https://res.example.com/image/upload/v1/messages/images/abc.jpg", kind: mediakind.Image}

	svc := NewMessageService(repos, nil, pusher, media, notifier)
	return &testEnv{svc: svc, repos: repos, db: db, pusher: pusher, notifier: notifier, media: media}
}

// seedUsers 创建 n 个用户，返回的 ID 从 1 开始连续
func (e *testEnv) seedUsers(t *testing.T, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		user := model.UserInfo{
			FirstName: "用户",
			LastName:  string(rune('A' + i)),
			Role:      "client",
		}
		if err := e.db.Create(&user).Error; err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

// backdate 将消息的创建时间改为过去某个时刻
func (e *testEnv) backdate(t *testing.T, messageId uint, createdAt time.Time) {
	t.Helper()
	if err := e.db.Model(&model.Message{}).Where("id = ?", messageId).
		Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("修改创建时间失败: %v", err)
	}
}

// ==================== 发送 ====================

func TestSendPersistsThenFansOut(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)
	sender, receiver := ids[0], ids[1]

	rsp, err := env.svc.Send(sender, request.SendMessageRequest{ReceiverId: receiver, Content: "你好"}, nil)
	if err != nil {
		t.Fatalf("发送失败: %v", err)
	}
	if rsp.Content != "你好" || rsp.SenderId != sender || rsp.ReceiverId != receiver {
		t.Errorf("响应内容不符: %+v", rsp)
	}
	if rsp.Uuid == "" || rsp.Uuid == "0" {
		t.Error("响应缺少雪花 ID")
	}

	// 落库校验
	stored, err := env.repos.Message.FindById(rsp.Id)
	if err != nil {
		t.Fatalf("查询落库消息失败: %v", err)
	}
	if stored.Content != "你好" || stored.IsRead {
		t.Errorf("落库消息不符: %+v", stored)
	}

	// 接收方收到 new-message，发送方收到回执
	if got := env.pusher.eventsFor(receiver, chat.EventNewMessage); len(got) != 1 {
		t.Errorf("接收方 new-message 事件数 = %d, 期望 1", len(got))
	}
	if got := env.pusher.eventsFor(sender, chat.EventMessageSentAck); len(got) != 1 {
		t.Errorf("发送方回执事件数 = %d, 期望 1", len(got))
	}

	// 通知扇出
	if len(env.notifier.requests) != 1 {
		t.Fatalf("通知数 = %d, 期望 1", len(env.notifier.requests))
	}
	notif := env.notifier.requests[0]
	if notif.UserId != receiver || notif.Type != "message" {
		t.Errorf("通知内容不符: %+v", notif)
	}
	if notif.ResourceId == nil || *notif.ResourceId != rsp.Id {
		t.Error("通知未关联消息 ID")
	}
}

func TestSendValidation(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	// 空消息体
	_, err := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1]}, nil)
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("空消息错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}

	// 自发自收
	_, err = env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[0], Content: "hi"}, nil)
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("自发自收错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}

	// 收件人不存在
	_, err = env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: 999, Content: "hi"}, nil)
	if errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("收件人不存在错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeNotFound)
	}
}

func TestSendWithMedia(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	file := &multipart.FileHeader{Filename: "photo.jpg", Size: 1024}
	rsp, err := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1]}, file)
	if err != nil {
		t.Fatalf("发送附件消息失败: %v", err)
	}
	if rsp.MediaUrl != env.media.url || rsp.MediaKind != "image" {
		t.Errorf("附件字段不符: url=%q kind=%q", rsp.MediaUrl, rsp.MediaKind)
	}
}

// ==================== 消息列表与单侧删除 ====================

func TestDeleteForMeKeepsOtherSideView(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)
	sender, receiver := ids[0], ids[1]

	rsp, err := env.svc.Send(sender, request.SendMessageRequest{ReceiverId: receiver, Content: "secret"}, nil)
	if err != nil {
		t.Fatalf("发送失败: %v", err)
	}

	// 发送方对自己删除
	if err := env.svc.Delete(sender, rsp.Id, false); err != nil {
		t.Fatalf("单侧删除失败: %v", err)
	}

	senderList, err := env.svc.GetMessageList(sender, receiver)
	if err != nil {
		t.Fatalf("发送方列表失败: %v", err)
	}
	if len(senderList.Messages) != 0 {
		t.Errorf("发送方仍可见 %d 条消息, 期望 0", len(senderList.Messages))
	}

	receiverList, err := env.svc.GetMessageList(receiver, sender)
	if err != nil {
		t.Fatalf("接收方列表失败: %v", err)
	}
	if len(receiverList.Messages) != 1 || receiverList.Messages[0].Content != "secret" {
		t.Errorf("接收方视图受到影响: %+v", receiverList.Messages)
	}

	// 接收方也删除后，数据行依旧保留
	if err := env.svc.Delete(receiver, rsp.Id, false); err != nil {
		t.Fatalf("接收方单侧删除失败: %v", err)
	}
	stored, err := env.repos.Message.FindById(rsp.Id)
	if err != nil {
		t.Fatalf("双方删除后数据行丢失: %v", err)
	}
	if !stored.DeletedForSender || !stored.DeletedForReceiver {
		t.Errorf("删除标记不符: %+v", stored)
	}
}

func TestDeleteForMeDoesNotNotifyPeer(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	rsp, _ := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "x"}, nil)
	before := len(env.pusher.eventsFor(ids[1], chat.EventMessageDeleted))

	if err := env.svc.Delete(ids[0], rsp.Id, false); err != nil {
		t.Fatalf("单侧删除失败: %v", err)
	}
	if after := len(env.pusher.eventsFor(ids[1], chat.EventMessageDeleted)); after != before {
		t.Error("单侧删除不应向对方推送 message-deleted")
	}
	// 请求方自己的其他端收到本地隐藏事件
	if len(env.pusher.eventsFor(ids[0], chat.EventMessageDeleted)) != 1 {
		t.Error("请求方未收到本侧删除事件")
	}
}

// ==================== 撤回 ====================

func TestDeleteForEveryoneInsideWindow(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	file := &multipart.FileHeader{Filename: "photo.jpg", Size: 1024}
	rsp, err := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "撤回我"}, file)
	if err != nil {
		t.Fatalf("发送失败: %v", err)
	}

	if err := env.svc.Delete(ids[0], rsp.Id, true); err != nil {
		t.Fatalf("撤回失败: %v", err)
	}

	stored, _ := env.repos.Message.FindById(rsp.Id)
	if stored.Content != constants.MESSAGE_TOMBSTONE {
		t.Errorf("内容 = %q, 期望墓碑文案", stored.Content)
	}
	if stored.MediaUrl != "" || stored.MediaKind != "" {
		t.Error("撤回后附件字段未清空")
	}

	// 远端附件被回收
	if len(env.media.removed) != 1 || env.media.removed[0] != env.media.url {
		t.Errorf("远端附件删除调用不符: %v", env.media.removed)
	}

	// 双方都收到 message-deleted
	if len(env.pusher.eventsFor(ids[0], chat.EventMessageDeleted)) != 1 ||
		len(env.pusher.eventsFor(ids[1], chat.EventMessageDeleted)) != 1 {
		t.Error("撤回事件未推送给双方")
	}
}

func TestDeleteForEveryoneWindowExpired(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	rsp, _ := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "太迟了"}, nil)
	env.backdate(t, rsp.Id, time.Now().Add(-constants.RECALL_WINDOW-time.Minute))

	err := env.svc.Delete(ids[0], rsp.Id, true)
	if errorx.GetCode(err) != errorx.CodeWindowExpired {
		t.Errorf("错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeWindowExpired)
	}

	// 窗口过后单侧删除仍然允许
	if err := env.svc.Delete(ids[0], rsp.Id, false); err != nil {
		t.Errorf("窗口过后单侧删除应成功: %v", err)
	}
}

func TestDeleteForEveryoneOnlySender(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 3)

	rsp, _ := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "x"}, nil)

	// 接收方不能撤回
	if err := env.svc.Delete(ids[1], rsp.Id, true); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("接收方撤回错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeForbidden)
	}
	// 第三方完全无权
	if err := env.svc.Delete(ids[2], rsp.Id, false); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("第三方删除错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeForbidden)
	}
}

// ==================== 编辑 ====================

func TestEditOnlySender(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	rsp, _ := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "原文"}, nil)

	if _, err := env.svc.Edit(ids[1], rsp.Id, "篡改"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非发送者编辑错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeForbidden)
	}
	if _, err := env.svc.Edit(ids[0], rsp.Id, ""); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("空内容编辑错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}

	updated, err := env.svc.Edit(ids[0], rsp.Id, "新内容")
	if err != nil {
		t.Fatalf("编辑失败: %v", err)
	}
	if updated.Content != "新内容" {
		t.Errorf("编辑后内容 = %q", updated.Content)
	}

	stored, _ := env.repos.Message.FindById(rsp.Id)
	if stored.Content != "新内容" {
		t.Errorf("落库内容 = %q", stored.Content)
	}
	if len(env.pusher.eventsFor(ids[1], chat.EventMessageUpdated)) != 1 {
		t.Error("接收方未收到 message-updated")
	}
}

// ==================== 已读 ====================

func TestMarkReadOnlyReceiver(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	rsp, _ := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "x"}, nil)

	if err := env.svc.MarkRead(rsp.Id, ids[0]); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("发送方标已读错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeForbidden)
	}

	if err := env.svc.MarkRead(rsp.Id, ids[1]); err != nil {
		t.Fatalf("标已读失败: %v", err)
	}
	stored, _ := env.repos.Message.FindById(rsp.Id)
	if !stored.IsRead {
		t.Error("消息未置已读")
	}
	// 发送方收到已读回执
	if len(env.pusher.eventsFor(ids[0], chat.EventMessageRead)) != 1 {
		t.Error("发送方未收到已读回执")
	}

	// 重复标记幂等，不再推送
	if err := env.svc.MarkRead(rsp.Id, ids[1]); err != nil {
		t.Fatalf("重复标已读失败: %v", err)
	}
	if len(env.pusher.eventsFor(ids[0], chat.EventMessageRead)) != 1 {
		t.Error("重复标记不应再次推送回执")
	}
}

func TestMarkAllReadPushesOnlyWhenUpdated(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 3)

	for i := 0; i < 3; i++ {
		env.svc.Send(ids[1], request.SendMessageRequest{ReceiverId: ids[0], Content: "m"}, nil)
	}
	// 另一个对话方的消息不受影响
	env.svc.Send(ids[2], request.SendMessageRequest{ReceiverId: ids[0], Content: "other"}, nil)

	count, err := env.svc.MarkAllRead(ids[0], ids[1])
	if err != nil {
		t.Fatalf("批量已读失败: %v", err)
	}
	if count != 3 {
		t.Errorf("影响行数 = %d, 期望 3", count)
	}
	if len(env.pusher.eventsFor(ids[1], chat.EventMessagesReadBulk)) != 1 {
		t.Error("对方未收到批量已读回执")
	}

	// 没有未读时不推送
	count, err = env.svc.MarkAllRead(ids[0], ids[1])
	if err != nil || count != 0 {
		t.Fatalf("二次批量已读: count=%d err=%v", count, err)
	}
	if len(env.pusher.eventsFor(ids[1], chat.EventMessagesReadBulk)) != 1 {
		t.Error("无更新时不应推送批量回执")
	}

	remaining, _ := env.svc.GetUnreadCount(ids[0])
	if remaining != 1 {
		t.Errorf("剩余未读 = %d, 期望 1（另一对话方）", remaining)
	}
}

func TestGetMessageListMarksUnreadRead(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)
	sender, receiver := ids[0], ids[1]

	env.svc.Send(sender, request.SendMessageRequest{ReceiverId: receiver, Content: "a"}, nil)
	env.svc.Send(sender, request.SendMessageRequest{ReceiverId: receiver, Content: "b"}, nil)

	// 发送方拉取列表不影响自己发出消息的已读状态
	env.svc.GetMessageList(sender, receiver)
	count, _ := env.svc.GetUnreadCount(receiver)
	if count != 2 {
		t.Fatalf("未读数 = %d, 期望 2", count)
	}

	// 接收方拉取列表视为阅读
	list, err := env.svc.GetMessageList(receiver, sender)
	if err != nil {
		t.Fatalf("拉取列表失败: %v", err)
	}
	for _, msg := range list.Messages {
		if !msg.IsRead {
			t.Errorf("消息 %d 未置已读", msg.Id)
		}
	}
	count, _ = env.svc.GetUnreadCount(receiver)
	if count != 0 {
		t.Errorf("拉取后未读数 = %d, 期望 0", count)
	}
	// 发送方收到批量已读回执
	if len(env.pusher.eventsFor(sender, chat.EventMessagesReadBulk)) != 1 {
		t.Error("发送方未收到批量已读回执")
	}
}

func TestUnreadCountIgnoresDeletedForReceiver(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)

	first, _ := env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "a"}, nil)
	env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "b"}, nil)

	// 接收方删除其中一条
	if err := env.svc.Delete(ids[1], first.Id, false); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	count, err := env.svc.GetUnreadCount(ids[1])
	if err != nil {
		t.Fatalf("未读统计失败: %v", err)
	}
	if count != 1 {
		t.Errorf("未读数 = %d, 期望 1", count)
	}
}

// ==================== 会话列表 ====================

func TestConversationsAggregation(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 3)
	me, friend, merchant := ids[0], ids[1], ids[2]

	base := time.Now().Add(-time.Hour)

	m1, _ := env.svc.Send(friend, request.SendMessageRequest{ReceiverId: me, Content: "较早的消息"}, nil)
	env.backdate(t, m1.Id, base)
	m2, _ := env.svc.Send(friend, request.SendMessageRequest{ReceiverId: me, Content: "好友最新"}, nil)
	env.backdate(t, m2.Id, base.Add(10*time.Minute))
	m3, _ := env.svc.Send(me, request.SendMessageRequest{ReceiverId: merchant, Content: "商家会话"}, nil)
	env.backdate(t, m3.Id, base.Add(20*time.Minute))

	conversations, err := env.svc.GetConversations(me)
	if err != nil {
		t.Fatalf("查询会话列表失败: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("会话数 = %d, 期望 2", len(conversations))
	}

	// 按最后消息时间降序：商家会话在前
	if conversations[0].PartnerId != merchant {
		t.Errorf("第一行对话方 = %d, 期望 %d", conversations[0].PartnerId, merchant)
	}
	if conversations[0].UnreadCount != 0 {
		t.Errorf("自己发出的会话未读数 = %d, 期望 0", conversations[0].UnreadCount)
	}

	if conversations[1].PartnerId != friend {
		t.Errorf("第二行对话方 = %d, 期望 %d", conversations[1].PartnerId, friend)
	}
	if conversations[1].UnreadCount != 2 {
		t.Errorf("好友会话未读数 = %d, 期望 2", conversations[1].UnreadCount)
	}
	if conversations[1].LastContent != "好友最新" {
		t.Errorf("最后消息预览 = %q, 期望 好友最新", conversations[1].LastContent)
	}
}

func TestConversationsRespectViewerDeletes(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 2)
	me, friend := ids[0], ids[1]

	base := time.Now().Add(-time.Hour)
	m1, _ := env.svc.Send(friend, request.SendMessageRequest{ReceiverId: me, Content: "旧消息"}, nil)
	env.backdate(t, m1.Id, base)
	m2, _ := env.svc.Send(friend, request.SendMessageRequest{ReceiverId: me, Content: "新消息"}, nil)
	env.backdate(t, m2.Id, base.Add(5*time.Minute))

	// 查看者删除最新一条，预览退回上一条可见消息
	if err := env.svc.Delete(me, m2.Id, false); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	conversations, err := env.svc.GetConversations(me)
	if err != nil {
		t.Fatalf("查询会话列表失败: %v", err)
	}
	if len(conversations) != 1 || conversations[0].LastContent != "旧消息" {
		t.Errorf("预览未回退: %+v", conversations)
	}

	// 全部删除后整个会话消失
	if err := env.svc.Delete(me, m1.Id, false); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	conversations, err = env.svc.GetConversations(me)
	if err != nil {
		t.Fatalf("查询会话列表失败: %v", err)
	}
	if len(conversations) != 0 {
		t.Errorf("会话应消失, 实际 %d 行", len(conversations))
	}

	// 对方视图不受影响
	peerConversations, err := env.svc.GetConversations(friend)
	if err != nil {
		t.Fatalf("对方会话列表失败: %v", err)
	}
	if len(peerConversations) != 1 || peerConversations[0].LastContent != "新消息" {
		t.Errorf("对方视图受影响: %+v", peerConversations)
	}
}

// ==================== 搜索 ====================

func TestSearchAcrossSentAndReceived(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedUsers(t, 3)

	env.svc.Send(ids[0], request.SendMessageRequest{ReceiverId: ids[1], Content: "发货单号 12345"}, nil)
	env.svc.Send(ids[1], request.SendMessageRequest{ReceiverId: ids[0], Content: "请查收发货信息"}, nil)
	env.svc.Send(ids[1], request.SendMessageRequest{ReceiverId: ids[2], Content: "与我无关的发货"}, nil)

	results, err := env.svc.Search(ids[0], "发货")
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("结果数 = %d, 期望 2", len(results))
	}
	for _, r := range results {
		if r.Sender == nil {
			t.Errorf("消息 %d 缺少发送者展示信息", r.Id)
		}
	}

	// 已对自己删除的消息不出现在搜索结果
	if err := env.svc.Delete(ids[0], results[0].Id, false); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	results, err = env.svc.Search(ids[0], "发货")
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("删除后结果数 = %d, 期望 1", len(results))
	}

	if _, err := env.svc.Search(ids[0], ""); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Error("空关键字应返回参数错误")
	}
}
