// Package message 实现私信业务逻辑
// 写路径统一遵循两段式：先落库（唯一可信数据源），再做通知和在线推送，
// 推送失败不影响已持久化的结果
package message

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"strconv"
	"time"

	"go.uber.org/zap"

	"shoplink_message_server/internal/dao/mysql/repository"
	myredis "shoplink_message_server/internal/dao/redis"
	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/internal/dto/respond"
	"shoplink_message_server/internal/model"
	"shoplink_message_server/internal/service/chat"
	"shoplink_message_server/pkg/constants"
	"shoplink_message_server/pkg/enum/mediakind"
	"shoplink_message_server/pkg/errorx"
	"shoplink_message_server/pkg/util/snowflake"
)

// MediaIngester 消息服务所需的附件处理能力
type MediaIngester interface {
	Ingest(ctx context.Context, file *multipart.FileHeader) (string, mediakind.Kind, error)
	Remove(url string, kind mediakind.Kind)
}

// Notifier 消息服务所需的通知能力
type Notifier interface {
	Notify(req request.CreateNotificationRequest) (*respond.NotificationRespond, error)
}

const cacheTTL = 10 * time.Minute

// messageService 私信业务逻辑实现
type messageService struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	pusher   chat.Pusher
	media    MediaIngester
	notifier Notifier
}

// NewMessageService 构造函数
func NewMessageService(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	pusher chat.Pusher,
	media MediaIngester,
	notifier Notifier,
) *messageService {
	return &messageService{
		repos:    repos,
		cache:    cache,
		pusher:   pusher,
		media:    media,
		notifier: notifier,
	}
}

// ==================== 缓存 Key ====================

func conversationsKey(userId uint) string {
	return "conversations_" + strconv.FormatUint(uint64(userId), 10)
}

func unreadKey(userId uint) string {
	return "unread_count_" + strconv.FormatUint(uint64(userId), 10)
}

func messageListKey(viewerId, partnerId uint) string {
	return "message_list_" + strconv.FormatUint(uint64(viewerId), 10) +
		"_" + strconv.FormatUint(uint64(partnerId), 10)
}

// invalidatePairCaches 异步清理一对用户相关的全部缓存
// 消息列表缓存按查看者分 Key，两个方向都要清
func (m *messageService) invalidatePairCaches(userOneId, userTwoId uint) {
	if m.cache == nil {
		return
	}
	keys := []string{
		conversationsKey(userOneId),
		conversationsKey(userTwoId),
		unreadKey(userOneId),
		unreadKey(userTwoId),
		messageListKey(userOneId, userTwoId),
		messageListKey(userTwoId, userOneId),
	}
	m.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
		defer cancel()
		for _, key := range keys {
			if err := m.cache.Delete(ctx, key); err != nil {
				zap.L().Error("清理缓存失败", zap.String("key", key), zap.Error(err))
			}
		}
	})
}

// ==================== 发送 ====================

// Send 发送消息
// 流程：参数校验 -> 附件上传 -> 落库 -> 通知落库+推送 -> 在线推送 -> 清缓存
func (m *messageService) Send(senderId uint, req request.SendMessageRequest, media *multipart.FileHeader) (*respond.MessageRespond, error) {
	if req.Content == "" && media == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容和附件不能同时为空")
	}
	if senderId == req.ReceiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发送消息")
	}

	// 收件人必须存在
	if _, err := m.repos.User.FindById(req.ReceiverId); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "收件人不存在")
		}
		return nil, err
	}

	var mediaUrl string
	var mediaKind string
	if media != nil {
		url, kind, err := m.media.Ingest(context.Background(), media)
		if err != nil {
			return nil, err
		}
		mediaUrl = url
		mediaKind = kind.String()
	}

	message := model.Message{
		Uuid:       snowflake.GenerateID(),
		SenderId:   senderId,
		ReceiverId: req.ReceiverId,
		Content:    req.Content,
		MediaUrl:   mediaUrl,
		MediaKind:  mediaKind,
	}
	if err := m.repos.Message.Create(&message); err != nil {
		// 落库失败时附件已上传，尽力回收远端对象
		if mediaUrl != "" {
			m.media.Remove(mediaUrl, mediakind.Kind(mediaKind))
		}
		return nil, err
	}

	sender := m.findUserBrief(senderId)
	rsp := toMessageRespond(&message, sender)

	// 通知先落库再推送，失败不影响消息发送结果
	m.fanOutNotification(&message, sender)

	if m.pusher != nil {
		m.pusher.PushToUser(message.ReceiverId, chat.NewEvent(chat.EventNewMessage, rsp))
		m.pusher.PushToUser(senderId, chat.NewEvent(chat.EventMessageSentAck, rsp))
	}

	m.invalidatePairCaches(senderId, message.ReceiverId)
	return rsp, nil
}

// fanOutNotification 为新消息创建持久化通知
func (m *messageService) fanOutNotification(message *model.Message, sender *respond.UserBrief) {
	if m.notifier == nil {
		return
	}
	text := "您收到一条新消息"
	if sender != nil {
		name := sender.FirstName
		if sender.LastName != "" {
			if name != "" {
				name += " "
			}
			name += sender.LastName
		}
		if name != "" {
			text = name + " 给您发来一条新消息"
		}
	}
	messageId := message.ID
	if _, err := m.notifier.Notify(request.CreateNotificationRequest{
		UserId:       message.ReceiverId,
		Type:         "message",
		Message:      text,
		ActionUrl:    "/messages/" + strconv.FormatUint(uint64(message.SenderId), 10),
		ResourceId:   &messageId,
		ResourceType: "message",
	}); err != nil {
		zap.L().Error("创建消息通知失败",
			zap.Uint("messageId", message.ID),
			zap.Uint("receiverId", message.ReceiverId),
			zap.Error(err))
	}
}

// ==================== 查询 ====================

// GetConversations 获取会话列表
// 读路径带缓存，单条分组查询聚合全部对话方
func (m *messageService) GetConversations(userId uint) ([]respond.ConversationRespond, error) {
	cacheKey := conversationsKey(userId)
	if m.cache != nil {
		cached, err := m.cache.Get(context.Background(), cacheKey)
		if err == nil && cached != "" {
			var rsp []respond.ConversationRespond
			if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
				return rsp, nil
			}
			zap.L().Error("解析会话列表缓存失败", zap.Error(err))
		}
	}

	rows, err := m.repos.Message.ListConversations(userId)
	if err != nil {
		zap.L().Error("查询会话列表失败", zap.Uint("userId", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rspList := make([]respond.ConversationRespond, 0, len(rows))
	for _, row := range rows {
		rspList = append(rspList, respond.ConversationRespond{
			PartnerId:     row.PartnerId,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Photo:         row.Photo,
			Role:          row.Role,
			UnreadCount:   row.UnreadCount,
			LastMessageAt: formatDBTime(row.LastMessageAt),
			LastContent:   row.LastContent.String,
			LastMediaUrl:  row.LastMediaUrl.String,
			LastMediaKind: row.LastMediaKind.String,
		})
	}

	m.cacheRespond(cacheKey, rspList)
	return rspList, nil
}

// GetMessageList 获取与某个对话方的消息列表
// 取全量双向消息后在业务层按查看者过滤删除标记，
// 保证一方的"对我删除"不影响另一方的视图
func (m *messageService) GetMessageList(viewerId, partnerId uint) (*respond.MessageListRespond, error) {
	partner, err := m.repos.User.FindById(partnerId)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "对话方不存在")
		}
		return nil, err
	}

	// 拉取历史即视为阅读，将对方发来的未读消息置已读并推送批量回执
	// 失败只记录日志，不阻塞列表返回
	if _, err := m.MarkAllRead(viewerId, partnerId); err != nil {
		zap.L().Warn("拉取消息列表时置已读失败",
			zap.Uint("viewerId", viewerId), zap.Uint("partnerId", partnerId), zap.Error(err))
	}

	cacheKey := messageListKey(viewerId, partnerId)
	if m.cache != nil {
		cached, err := m.cache.Get(context.Background(), cacheKey)
		if err == nil && cached != "" {
			var rsp respond.MessageListRespond
			if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
				return &rsp, nil
			}
			zap.L().Error("解析消息列表缓存失败", zap.Error(err))
		}
	}

	messages, err := m.repos.Message.FindByPair(viewerId, partnerId)
	if err != nil {
		zap.L().Error("查询消息列表失败", zap.Uint("viewerId", viewerId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	briefs := map[uint]*respond.UserBrief{
		partnerId: toUserBrief(partner),
		viewerId:  m.findUserBrief(viewerId),
	}

	rsp := &respond.MessageListRespond{
		Partner:  *toUserBrief(partner),
		Messages: make([]respond.MessageRespond, 0, len(messages)),
	}
	for i := range messages {
		message := &messages[i]
		if !message.VisibleTo(viewerId) {
			continue
		}
		rsp.Messages = append(rsp.Messages, *toMessageRespond(message, briefs[message.SenderId]))
	}

	m.cacheRespond(cacheKey, rsp)
	return rsp, nil
}

// GetUnreadCount 统计未读消息数，带缓存
func (m *messageService) GetUnreadCount(userId uint) (int64, error) {
	cacheKey := unreadKey(userId)
	if m.cache != nil {
		cached, err := m.cache.Get(context.Background(), cacheKey)
		if err == nil && cached != "" {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := m.repos.Message.CountUnread(userId)
	if err != nil {
		zap.L().Error("统计未读消息失败", zap.Uint("userId", userId), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}

	if m.cache != nil {
		m.cache.SubmitTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
			defer cancel()
			if err := m.cache.Set(ctx, cacheKey, strconv.FormatInt(count, 10), cacheTTL); err != nil {
				zap.L().Error("写入未读数缓存失败", zap.Error(err))
			}
		})
	}
	return count, nil
}

// Search 在自己收发的消息内容中搜索，按时间降序
func (m *messageService) Search(userId uint, query string) ([]respond.MessageRespond, error) {
	if query == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "搜索关键字不能为空")
	}
	messages, err := m.repos.Message.SearchByContent(userId, query)
	if err != nil {
		zap.L().Error("搜索消息失败", zap.Uint("userId", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 批量查询发送者展示信息，查询失败不阻塞搜索结果
	senderIdSet := make(map[uint]struct{}, len(messages))
	for i := range messages {
		senderIdSet[messages[i].SenderId] = struct{}{}
	}
	senderIds := make([]uint, 0, len(senderIdSet))
	for id := range senderIdSet {
		senderIds = append(senderIds, id)
	}
	briefs := make(map[uint]*respond.UserBrief, len(senderIds))
	if users, err := m.repos.User.FindByIds(senderIds); err != nil {
		zap.L().Warn("查询搜索结果用户信息失败", zap.Error(err))
	} else {
		for i := range users {
			briefs[users[i].ID] = toUserBrief(&users[i])
		}
	}

	rspList := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		message := &messages[i]
		if !message.VisibleTo(userId) {
			continue
		}
		rspList = append(rspList, *toMessageRespond(message, briefs[message.SenderId]))
	}
	return rspList, nil
}

// ==================== 编辑与删除 ====================

// Edit 编辑消息，仅发送者可编辑
func (m *messageService) Edit(requesterId, messageId uint, content string) (*respond.MessageRespond, error) {
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}

	message, err := m.repos.Message.FindById(messageId)
	if err != nil {
		return nil, err
	}
	if message.SenderId != requesterId {
		return nil, errorx.New(errorx.CodeForbidden, "只能编辑自己发送的消息")
	}

	if err := m.repos.Message.Updates(messageId, map[string]interface{}{
		"content": content,
	}); err != nil {
		return nil, err
	}
	message.Content = content

	rsp := toMessageRespond(message, m.findUserBrief(message.SenderId))
	if m.pusher != nil {
		m.pusher.PushToUser(message.ReceiverId, chat.NewEvent(chat.EventMessageUpdated, rsp))
		m.pusher.PushToUser(message.SenderId, chat.NewEvent(chat.EventMessageUpdated, rsp))
	}

	m.invalidatePairCaches(message.SenderId, message.ReceiverId)
	return rsp, nil
}

// Delete 删除消息
// forEveryone 为真时撤回：仅发送者、发送后 30 分钟内，
// 内容墓碑化且附件从对象存储删除；否则只置本侧删除标记
func (m *messageService) Delete(requesterId, messageId uint, forEveryone bool) error {
	message, err := m.repos.Message.FindById(messageId)
	if err != nil {
		return err
	}
	if message.SenderId != requesterId && message.ReceiverId != requesterId {
		return errorx.New(errorx.CodeForbidden, "无权操作该消息")
	}

	if forEveryone {
		if message.SenderId != requesterId {
			return errorx.New(errorx.CodeForbidden, "只能撤回自己发送的消息")
		}
		if time.Since(message.CreatedAt) > constants.RECALL_WINDOW {
			return errorx.New(errorx.CodeWindowExpired, "消息发送已超过30分钟，无法撤回")
		}

		oldUrl, oldKind := message.MediaUrl, message.MediaKind
		if err := m.repos.Message.Updates(messageId, map[string]interface{}{
			"content":    constants.MESSAGE_TOMBSTONE,
			"media_url":  "",
			"media_kind": "",
		}); err != nil {
			return err
		}
		if oldUrl != "" {
			m.media.Remove(oldUrl, mediakind.Kind(oldKind))
		}

		message.Content = constants.MESSAGE_TOMBSTONE
		message.MediaUrl = ""
		message.MediaKind = ""
		rsp := toMessageRespond(message, nil)
		if m.pusher != nil {
			m.pusher.PushToUser(message.ReceiverId, chat.NewEvent(chat.EventMessageDeleted, rsp))
			m.pusher.PushToUser(message.SenderId, chat.NewEvent(chat.EventMessageDeleted, rsp))
		}
	} else {
		// 单侧删除，只通知请求方自己的其他端，不通知对方
		column := "deleted_for_receiver"
		if message.SenderId == requesterId {
			column = "deleted_for_sender"
		}
		if err := m.repos.Message.Updates(messageId, map[string]interface{}{
			column: true,
		}); err != nil {
			return err
		}
		if m.pusher != nil {
			m.pusher.PushToUser(requesterId, chat.NewEvent(chat.EventMessageDeleted, map[string]any{
				"messageId": message.ID,
				"uuid":      strconv.FormatInt(message.Uuid, 10),
				"scope":     "self",
			}))
		}
	}

	m.invalidatePairCaches(message.SenderId, message.ReceiverId)
	return nil
}

// ==================== 已读 ====================

// MarkRead 将单条消息置已读，仅接收方可操作
// 成功后向发送方推送已读回执
func (m *messageService) MarkRead(messageId, requesterId uint) error {
	message, err := m.repos.Message.FindById(messageId)
	if err != nil {
		return err
	}
	if message.ReceiverId != requesterId {
		return errorx.New(errorx.CodeForbidden, "只能标记发给自己的消息")
	}
	if message.IsRead {
		return nil
	}

	if err := m.repos.Message.MarkReadByIds([]uint{messageId}); err != nil {
		return err
	}

	if m.pusher != nil {
		m.pusher.PushToUser(message.SenderId, chat.NewEvent(chat.EventMessageRead, map[string]any{
			"messageId": message.ID,
			"uuid":      strconv.FormatInt(message.Uuid, 10),
			"readerId":  requesterId,
			"readAt":    time.Now().Format("2006-01-02 15:04:05"),
		}))
	}

	m.invalidatePairCaches(message.SenderId, message.ReceiverId)
	return nil
}

// MarkAllRead 将某对话方发来的全部未读消息置已读
// 有消息被更新时才向对方推送批量已读回执
func (m *messageService) MarkAllRead(requesterId, partnerId uint) (int64, error) {
	count, err := m.repos.Message.MarkAllReadFromPartner(requesterId, partnerId)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		if m.pusher != nil {
			m.pusher.PushToUser(partnerId, chat.NewEvent(chat.EventMessagesReadBulk, map[string]any{
				"readerId": requesterId,
				"count":    count,
				"readAt":   time.Now().Format("2006-01-02 15:04:05"),
			}))
		}
		m.invalidatePairCaches(requesterId, partnerId)
	}
	return count, nil
}

// ==================== 辅助函数 ====================

// findUserBrief 查询用户展示信息，失败返回 nil 不阻塞主流程
func (m *messageService) findUserBrief(userId uint) *respond.UserBrief {
	user, err := m.repos.User.FindById(userId)
	if err != nil {
		zap.L().Warn("查询用户展示信息失败", zap.Uint("userId", userId), zap.Error(err))
		return nil
	}
	return toUserBrief(user)
}

// cacheRespond 异步写入查询结果缓存
func (m *messageService) cacheRespond(key string, value any) {
	if m.cache == nil {
		return
	}
	m.cache.SubmitTask(func() {
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			zap.L().Error("序列化缓存失败", zap.Error(err))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
		defer cancel()
		if err := m.cache.Set(ctx, key, string(jsonBytes), cacheTTL); err != nil {
			zap.L().Error("写入缓存失败", zap.String("key", key), zap.Error(err))
		}
	})
}

// toUserBrief 转换用户展示信息
func toUserBrief(u *model.UserInfo) *respond.UserBrief {
	return &respond.UserBrief{
		Id:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Photo:     u.Photo,
		Role:      u.Role,
	}
}

// toMessageRespond 转换消息响应
func toMessageRespond(message *model.Message, sender *respond.UserBrief) *respond.MessageRespond {
	return &respond.MessageRespond{
		Id:         message.ID,
		Uuid:       strconv.FormatInt(message.Uuid, 10),
		SenderId:   message.SenderId,
		ReceiverId: message.ReceiverId,
		Content:    message.Content,
		MediaUrl:   message.MediaUrl,
		MediaKind:  message.MediaKind,
		IsRead:     message.IsRead,
		CreatedAt:  message.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  message.UpdatedAt.Format("2006-01-02 15:04:05"),
		Sender:     sender,
	}
}

// formatDBTime 将数据库返回的时间字符串规范化为统一格式
// 不同驱动返回的文本格式不同，解析失败时原样返回
func formatDBTime(s string) string {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return s
}
