package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDScalar serializes Mongo ObjectIDs as their hex form.
var objectIDScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name: "ObjectID",
	Serialize: func(value any) any {
		switch v := value.(type) {
		case primitive.ObjectID:
			if v.IsZero() {
				return nil
			}
			return v.Hex()
		case *primitive.ObjectID:
			if v == nil {
				return nil
			}
			return v.Hex()
		}
		return fmt.Sprintf("%v", value)
	},
	ParseValue: func(value any) any { return value },
})

var locationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Location",
	Fields: graphql.Fields{
		"lat":  &graphql.Field{Type: graphql.Float},
		"long": &graphql.Field{Type: graphql.Float},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var settingsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Settings",
	Fields: graphql.Fields{
		"sound":        &graphql.Field{Type: graphql.Boolean},
		"notification": &graphql.Field{Type: graphql.Boolean},
		"message":      &graphql.Field{Type: graphql.Boolean},
		"channel":      &graphql.Field{Type: graphql.Boolean},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: objectIDScalar},
		"full_name":     &graphql.Field{Type: graphql.String},
		"username":      &graphql.Field{Type: graphql.String},
		"email":         &graphql.Field{Type: graphql.String},
		"phone_number":  &graphql.Field{Type: graphql.String},
		"image":         &graphql.Field{Type: graphql.String},
		"cover_image":   &graphql.Field{Type: graphql.String},
		"is_online":     &graphql.Field{Type: graphql.Boolean},
		"location":      &graphql.Field{Type: locationType},
		"settings":      &graphql.Field{Type: settingsType},
		"posts":         &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"social_posts":  &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"likes":         &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"comments":      &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"followers":     &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"following":     &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"notifications": &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"channels":      &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"created_at":    &graphql.Field{Type: graphql.DateTime},
	},
})

var conversationSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ConversationSummary",
	Fields: graphql.Fields{
		"user_id":         &graphql.Field{Type: objectIDScalar},
		"username":        &graphql.Field{Type: graphql.String},
		"full_name":       &graphql.Field{Type: graphql.String},
		"image":           &graphql.Field{Type: graphql.String},
		"last_message":    &graphql.Field{Type: graphql.String},
		"last_message_at": &graphql.Field{Type: graphql.String},
	},
})

var authUserType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthUser",
	Fields: graphql.Fields{
		"user":              &graphql.Field{Type: userType},
		"new_conversations": &graphql.Field{Type: graphql.NewList(conversationSummaryType)},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.String},
		"user":  &graphql.Field{Type: userType},
	},
})

var usersPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UsersPayload",
	Fields: graphql.Fields{
		"users": &graphql.Field{Type: graphql.NewList(userType)},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: objectIDScalar},
		"title":      &graphql.Field{Type: graphql.String},
		"price":      &graphql.Field{Type: graphql.String},
		"content":    &graphql.Field{Type: graphql.String},
		"type":       &graphql.Field{Type: graphql.String},
		"category":   &graphql.Field{Type: graphql.String},
		"images":     &graphql.Field{Type: graphql.NewList(graphql.String)},
		"location":   &graphql.Field{Type: locationType},
		"view":       &graphql.Field{Type: graphql.Int},
		"contact":    &graphql.Field{Type: graphql.Int},
		"author_id":  &graphql.Field{Type: objectIDScalar},
		"likes":      &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"comments":   &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"channels":   &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"created_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var postsPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PostsPayload",
	Fields: graphql.Fields{
		"posts": &graphql.Field{Type: graphql.NewList(postType)},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var postPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PostPayload",
	Fields: graphql.Fields{
		"post":    &graphql.Field{Type: postType},
		"related": &graphql.Field{Type: graphql.NewList(postType)},
	},
})

var socialImageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SocialImage",
	Fields: graphql.Fields{
		"url": &graphql.Field{Type: graphql.String},
	},
})

var socialPostType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SocialPost",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: objectIDScalar},
		"title":      &graphql.Field{Type: graphql.String},
		"topic":      &graphql.Field{Type: graphql.String},
		"images":     &graphql.Field{Type: graphql.NewList(socialImageType)},
		"author_id":  &graphql.Field{Type: objectIDScalar},
		"likes":      &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"comments":   &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"created_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var socialPostsPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SocialPostsPayload",
	Fields: graphql.Fields{
		"posts": &graphql.Field{Type: graphql.NewList(socialPostType)},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var commentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Comment",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: objectIDScalar},
		"text":       &graphql.Field{Type: graphql.String},
		"image":      &graphql.Field{Type: graphql.String},
		"post_id":    &graphql.Field{Type: objectIDScalar},
		"post_kind":  &graphql.Field{Type: graphql.String},
		"author_id":  &graphql.Field{Type: objectIDScalar},
		"parent_id":  &graphql.Field{Type: objectIDScalar},
		"children":   &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"likes":      &graphql.Field{Type: graphql.NewList(objectIDScalar)},
		"created_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var likeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Like",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: objectIDScalar},
		"user_id":     &graphql.Field{Type: objectIDScalar},
		"target_id":   &graphql.Field{Type: objectIDScalar},
		"target_kind": &graphql.Field{Type: graphql.String},
		"created_at":  &graphql.Field{Type: graphql.DateTime},
	},
})

var followType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Follow",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: objectIDScalar},
		"follower_id": &graphql.Field{Type: objectIDScalar},
		"user_id":     &graphql.Field{Type: objectIDScalar},
		"created_at":  &graphql.Field{Type: graphql.DateTime},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: objectIDScalar},
		"sender_id":   &graphql.Field{Type: objectIDScalar},
		"receiver_id": &graphql.Field{Type: objectIDScalar},
		"post_id":     &graphql.Field{Type: objectIDScalar},
		"channel_id":  &graphql.Field{Type: objectIDScalar},
		"body":        &graphql.Field{Type: graphql.String},
		"image":       &graphql.Field{Type: graphql.String},
		"kind":        &graphql.Field{Type: graphql.String},
		"share_id":    &graphql.Field{Type: objectIDScalar},
		"seen":        &graphql.Field{Type: graphql.Boolean},
		"is_first":    &graphql.Field{Type: graphql.Boolean},
		"created_at":  &graphql.Field{Type: graphql.DateTime},
	},
})

var conversationRowType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ConversationRow",
	Fields: graphql.Fields{
		"channel_id":          &graphql.Field{Type: objectIDScalar},
		"user_id":             &graphql.Field{Type: objectIDScalar},
		"username":            &graphql.Field{Type: graphql.String},
		"full_name":           &graphql.Field{Type: graphql.String},
		"image":               &graphql.Field{Type: graphql.String},
		"is_online":           &graphql.Field{Type: graphql.Boolean},
		"location_name":       &graphql.Field{Type: graphql.String},
		"post":                &graphql.Field{Type: postType},
		"sender_id":           &graphql.Field{Type: objectIDScalar},
		"last_message":        &graphql.Field{Type: graphql.String},
		"last_message_at":     &graphql.Field{Type: graphql.DateTime},
		"last_message_sender": &graphql.Field{Type: graphql.Boolean},
		"seen":                &graphql.Field{Type: graphql.Boolean},
		"image_message":       &graphql.Field{Type: graphql.Boolean},
	},
})

var notificationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Notification",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: objectIDScalar},
		"kind":       &graphql.Field{Type: graphql.String},
		"author_id":  &graphql.Field{Type: objectIDScalar},
		"user_id":    &graphql.Field{Type: objectIDScalar},
		"key":        &graphql.Field{Type: objectIDScalar},
		"post_id":    &graphql.Field{Type: objectIDScalar},
		"post_kind":  &graphql.Field{Type: graphql.String},
		"like_id":    &graphql.Field{Type: objectIDScalar},
		"comment_id": &graphql.Field{Type: objectIDScalar},
		"follow_id":  &graphql.Field{Type: objectIDScalar},
		"message_id": &graphql.Field{Type: objectIDScalar},
		"seen":       &graphql.Field{Type: graphql.Boolean},
		"click":      &graphql.Field{Type: graphql.Boolean},
		"created_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var notificationsPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "NotificationsPayload",
	Fields: graphql.Fields{
		"notifications": &graphql.Field{Type: graphql.NewList(notificationType)},
		"count":         &graphql.Field{Type: graphql.Int},
	},
})

var reportPostType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ReportPost",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: objectIDScalar},
		"post_id": &graphql.Field{Type: objectIDScalar},
		"user_id": &graphql.Field{Type: objectIDScalar},
		"content": &graphql.Field{Type: graphql.String},
		"images":  &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

func inputObject(name string, fields graphql.InputObjectConfigFieldMap) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{Name: name, Fields: fields})
}

func inputArg(obj *graphql.InputObject) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(obj)},
	}
}

var pagingArgs = graphql.FieldConfigArgument{
	"skip":  &graphql.ArgumentConfig{Type: graphql.Int},
	"limit": &graphql.ArgumentConfig{Type: graphql.Int},
}

func withPaging(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	for k, v := range pagingArgs {
		args[k] = v
	}
	return args
}

// NewSchema builds the executable schema over the resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	signInInput := inputObject("SignInInput", graphql.InputObjectConfigFieldMap{
		"provider":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"access_token": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"lat":          &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"long":         &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"place":        &graphql.InputObjectFieldConfig{Type: graphql.String},
	})
	deviceTokenInput := inputObject("DeviceTokenInput", graphql.InputObjectConfigFieldMap{
		"token": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	})
	updateSettingInput := inputObject("UpdateSettingInput", graphql.InputObjectConfigFieldMap{
		"type":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"value": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Boolean)},
	})
	editAccountInput := inputObject("EditAccountInput", graphql.InputObjectConfigFieldMap{
		"username":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"phone_number": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":        &graphql.InputObjectFieldConfig{Type: graphql.String},
	})
	uploadPhotoInput := inputObject("UploadPhotoInput", graphql.InputObjectConfigFieldMap{
		"file":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"filename":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"content_type": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"is_cover":     &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	})
	locationInput := inputObject("LocationInput", graphql.InputObjectConfigFieldMap{
		"lat":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"long": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"name": &graphql.InputObjectFieldConfig{Type: graphql.String},
	})
	createPostInput := inputObject("CreatePostInput", graphql.InputObjectConfigFieldMap{
		"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"type":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"category": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"location": &graphql.InputObjectFieldConfig{Type: locationInput},
		"images":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
	})
	createSocialPostInput := inputObject("CreateSocialPostInput", graphql.InputObjectConfigFieldMap{
		"title":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"topic":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"images": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
	})
	createCommentInput := inputObject("CreateCommentInput", graphql.InputObjectConfigFieldMap{
		"text":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"post_id":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"post_kind": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"parent_id": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"image":     &graphql.InputObjectFieldConfig{Type: graphql.String},
	})
	createLikeInput := inputObject("CreateLikeInput", graphql.InputObjectConfigFieldMap{
		"target_id":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"target_kind": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	})
	followInput := inputObject("FollowInput", graphql.InputObjectConfigFieldMap{
		"user_id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	})
	createMessageInput := inputObject("CreateMessageInput", graphql.InputObjectConfigFieldMap{
		"body":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"sender":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"receiver":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"post_id":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"is_author": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"image":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"kind":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"share_id":  &graphql.InputObjectFieldConfig{Type: graphql.String},
	})
	updateMessageSeenInput := inputObject("UpdateMessageSeenInput", graphql.InputObjectConfigFieldMap{
		"sender":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"receiver": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"post_id":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	})
	channelInput := inputObject("ChannelInput", graphql.InputObjectConfigFieldMap{
		"id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	})
	createNotificationInput := inputObject("CreateNotificationInput", graphql.InputObjectConfigFieldMap{
		"user_id":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"author_id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"post_id":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"post_kind": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"kind":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"ref_id":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	})
	reportPostInput := inputObject("ReportPostInput", graphql.InputObjectConfigFieldMap{
		"post_id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"images":  &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
	})

	idArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getAuthUser": {Type: authUserType, Resolve: r.GetAuthUser},
			"getUser":     {Type: userType, Args: idArgs, Resolve: r.GetUser},
			"getUsers":    {Type: usersPayloadType, Args: withPaging(graphql.FieldConfigArgument{}), Resolve: r.GetUsers},
			"searchUsers": {
				Type:    graphql.NewList(userType),
				Args:    graphql.FieldConfigArgument{"searchQuery": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.SearchUsers,
			},
			"suggestPeople": {Type: graphql.NewList(userType), Resolve: r.SuggestPeople},
			"getSetting":    {Type: settingsType, Resolve: r.GetSetting},
			"getPosts":      {Type: postsPayloadType, Args: withPaging(graphql.FieldConfigArgument{}), Resolve: r.GetPosts},
			"getFollowedPosts": {
				Type: postsPayloadType,
				Args: withPaging(graphql.FieldConfigArgument{
					"type":       &graphql.ArgumentConfig{Type: graphql.String},
					"categories": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				}),
				Resolve: r.GetFollowedPosts,
			},
			"getPost": {Type: postPayloadType, Args: idArgs, Resolve: r.GetPost},
			"getUserPosts": {
				Type:    postsPayloadType,
				Args:    withPaging(graphql.FieldConfigArgument{"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}}),
				Resolve: r.GetUserPosts,
			},
			"searchPosts": {
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"searchQuery": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"category":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.SearchPosts,
			},
			"getFollowedPostSocials": {
				Type:    socialPostsPayloadType,
				Args:    withPaging(graphql.FieldConfigArgument{"topic": &graphql.ArgumentConfig{Type: graphql.String}}),
				Resolve: r.GetFollowedPostSocials,
			},
			"getUserPostSocials": {
				Type:    socialPostsPayloadType,
				Args:    withPaging(graphql.FieldConfigArgument{"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}}),
				Resolve: r.GetUserPostSocials,
			},
			"getComments": {
				Type:    graphql.NewList(commentType),
				Args:    graphql.FieldConfigArgument{"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.GetComments,
			},
			"getMessages": {
				Type: graphql.NewList(messageType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.GetMessages,
			},
			"getConversations": {Type: graphql.NewList(conversationRowType), Resolve: r.GetConversations},
			"getUserNotifications": {
				Type:    notificationsPayloadType,
				Args:    withPaging(graphql.FieldConfigArgument{"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}}),
				Resolve: r.GetUserNotifications,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signInWithProvider":  {Type: authPayloadType, Args: inputArg(signInInput), Resolve: r.SignInWithProvider},
			"registerDeviceToken": {Type: graphql.Boolean, Args: inputArg(deviceTokenInput), Resolve: r.RegisterDeviceToken},
			"removeDeviceToken":   {Type: graphql.Boolean, Args: inputArg(deviceTokenInput), Resolve: r.RemoveDeviceToken},
			"updateSetting":       {Type: graphql.Boolean, Args: inputArg(updateSettingInput), Resolve: r.UpdateSetting},
			"editAccount":         {Type: userType, Args: inputArg(editAccountInput), Resolve: r.EditAccount},
			"uploadUserPhoto":     {Type: userType, Args: inputArg(uploadPhotoInput), Resolve: r.UploadUserPhoto},
			"createPost":          {Type: postType, Args: inputArg(createPostInput), Resolve: r.CreatePost},
			"viewPost":            {Type: postType, Args: idArgs, Resolve: r.ViewPost},
			"contactPost":         {Type: postType, Args: idArgs, Resolve: r.ContactPost},
			"deletePost":          {Type: postType, Args: idArgs, Resolve: r.DeletePost},
			"createPostSocial":    {Type: socialPostType, Args: inputArg(createSocialPostInput), Resolve: r.CreatePostSocial},
			"deletePostSocial":    {Type: socialPostType, Args: idArgs, Resolve: r.DeletePostSocial},
			"createComment":       {Type: commentType, Args: inputArg(createCommentInput), Resolve: r.CreateComment},
			"deleteComment":       {Type: commentType, Args: idArgs, Resolve: r.DeleteComment},
			"createLike":          {Type: likeType, Args: inputArg(createLikeInput), Resolve: r.CreateLike},
			"deleteLike":          {Type: likeType, Args: idArgs, Resolve: r.DeleteLike},
			"createFollow":        {Type: followType, Args: inputArg(followInput), Resolve: r.CreateFollow},
			"deleteFollow":        {Type: followType, Args: inputArg(followInput), Resolve: r.DeleteFollow},
			"createMessage":       {Type: messageType, Args: inputArg(createMessageInput), Resolve: r.CreateMessage},
			"updateMessageSeen":   {Type: graphql.Boolean, Args: inputArg(updateMessageSeenInput), Resolve: r.UpdateMessageSeen},
			"deleteChatConversation": {
				Type: graphql.Boolean, Args: inputArg(channelInput), Resolve: r.DeleteChatConversation,
			},
			"createNotification":      {Type: notificationType, Args: inputArg(createNotificationInput), Resolve: r.CreateNotification},
			"deleteNotification":      {Type: notificationType, Args: idArgs, Resolve: r.DeleteNotification},
			"deleteLikeNotification":  {Type: graphql.Boolean, Args: idArgs, Resolve: r.DeleteLikeNotification},
			"updateNotificationSeen":  {Type: graphql.Boolean, Resolve: r.UpdateNotificationSeen},
			"updateNotificationClick": {Type: graphql.Boolean, Args: idArgs, Resolve: r.UpdateNotificationClick},
			"createReportPost":        {Type: reportPostType, Args: inputArg(reportPostInput), Resolve: r.CreateReportPost},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
