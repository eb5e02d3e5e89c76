package upstream

import (
	"encoding/json"
	"time"
)

// identityQuery loads the signed-in user and the module XP total. Piscine-js
// XP is excluded so the total reflects the main curriculum only.
const identityQuery = `query Identity($xpLike: String!, $xpExclude: String!) {
  user {
    id
    login
    totalUp
    totalDown
    attrs
  }
  transaction_aggregate(
    where: {
      _and: [
        { type: { _eq: "xp" } }
        { path: { _like: $xpLike } }
        { path: { _nlike: $xpExclude } }
      ]
    }
  ) {
    aggregate {
      sum {
        amount
      }
    }
  }
}`

// progressQuery loads the highest amount per skill type and the most recent
// XP-earning projects, skipping checkpoints and piscine-js.
const progressQuery = `query Progress($projectLike: String!, $checkpointLike: String!, $piscineLike: String!, $limit: Int!) {
  progressionSkill: user {
    transactions(
      where: { type: { _like: "skill_%" } }
      distinct_on: type
      order_by: [{ type: asc }, { amount: desc }]
    ) {
      type
      amount
    }
  }
  recentProj: transaction(
    where: {
      type: { _eq: "xp" }
      _and: [
        { path: { _like: $projectLike } }
        { path: { _nlike: $checkpointLike } }
        { path: { _nlike: $piscineLike } }
      ]
    }
    order_by: { createdAt: desc }
    limit: $limit
  ) {
    object {
      type
      name
    }
  }
}`

// auditQuery loads the latest audits performed by the user that carry a
// private code, newest first.
const auditQuery = `query Audits($userId: Int!, $limit: Int!) {
  audit(
    where: { auditor: { id: { _eq: $userId } }, private: { code: { _is_null: false } } }
    order_by: { id: desc }
    limit: $limit
  ) {
    createdAt
    group {
      path
      captain {
        login
      }
    }
    private {
      code
    }
  }
}`

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type identityData struct {
	User []struct {
		ID        int64   `json:"id"`
		Login     string  `json:"login"`
		TotalUp   float64 `json:"totalUp"`
		TotalDown float64 `json:"totalDown"`
		Attrs     struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"attrs"`
	} `json:"user"`
	XP struct {
		Aggregate struct {
			Sum struct {
				Amount *float64 `json:"amount"`
			} `json:"sum"`
		} `json:"aggregate"`
	} `json:"transaction_aggregate"`
}

type progressData struct {
	ProgressionSkill []struct {
		Transactions json.RawMessage `json:"transactions"`
	} `json:"progressionSkill"`
	RecentProj []struct {
		Object struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"object"`
	} `json:"recentProj"`
}

type auditData struct {
	Audit []struct {
		CreatedAt time.Time `json:"createdAt"`
		Group     struct {
			Path    string `json:"path"`
			Captain struct {
				Login string `json:"login"`
			} `json:"captain"`
		} `json:"group"`
		Private struct {
			Code string `json:"code"`
		} `json:"private"`
	} `json:"audit"`
}
